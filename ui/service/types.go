package service

import (
	"regexp"
)

// Validation constants for query parameters
const (
	// MaxPageLimit is the maximum allowed page size to prevent resource exhaustion
	MaxPageLimit = 1000
	// MinPageLimit is the minimum allowed page size
	MinPageLimit = 1
	// maxTagLength is the maximum length of a job or model tag
	maxTagLength = 64
)

var tagRegex = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)

// ValidateLimit ensures limit is within acceptable bounds.
func ValidateLimit(limit int) int {
	if limit < MinPageLimit {
		return MinPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// ValidateOffset ensures offset is non-negative.
func ValidateOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// ValidateTag reports whether tag can be attached to a job or model.
func ValidateTag(tag string) bool {
	return len(tag) > 0 && len(tag) <= maxTagLength && tagRegex.MatchString(tag)
}

// JobListParams contains parameters for listing jobs. Empty filters match
// every job.
type JobListParams struct {
	Status   string
	Owner    string
	Pipeline string
	Tag      string
	Limit    int
	Offset   int
}

// JobList contains a filtered, paginated list of jobs.
type JobList struct {
	Jobs       []*JobRow      `json:"jobs"`
	TotalCount int            `json:"total_count"`
	HasMore    bool           `json:"has_more"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
	ByStatus   map[string]int `json:"by_status"`
	Owners     []string       `json:"owners"`
	Pipelines  []string       `json:"pipelines"`
}

// JobRow is a job formatted for display.
type JobRow struct {
	ID         string   `json:"id"`
	ParentID   string   `json:"parent_id,omitempty"`
	Pipeline   string   `json:"pipeline"`
	Owner      string   `json:"owner"`
	Status     string   `json:"status"`
	Stage      string   `json:"stage"`
	Pool       string   `json:"pool,omitempty"`
	Tags       []string `json:"tags"`
	Created    string   `json:"created"`
	CreatedAgo string   `json:"created_ago"`
	Started    string   `json:"started"`
	Completed  string   `json:"completed"`
	// Duration is empty until the job starts.
	Duration   string `json:"duration"`
	ExitCode   *int   `json:"exit_code,omitempty"`
	ExitReason string `json:"exit_reason,omitempty"`
	Finished   bool   `json:"finished"`
}

// JobDetail is a single job with its history.
type JobDetail struct {
	*JobRow
	Cmd         string      `json:"cmd"`
	CreatorHost string      `json:"creator_host"`
	Image       string      `json:"image,omitempty"`
	Mode        string      `json:"execution_mode,omitempty"`
	PodName     string      `json:"pod_name,omitempty"`
	Exception   string      `json:"exception,omitempty"`
	Params      []KeyValue  `json:"params"`
	Resources   []KeyValue  `json:"resources"`
	Events      []*EventRow `json:"events"`
	Output      string      `json:"output,omitempty"`
}

// KeyValue is a display pair.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// EventRow is a history entry formatted for display.
type EventRow struct {
	Time     string     `json:"time"`
	Type     string     `json:"type"`
	Metadata []KeyValue `json:"metadata"`
}

// Log sources.
const (
	LogSourcePod     = "pod"
	LogSourceArchive = "archive"
)

// JobLog is the log of a job and where it was read from.
type JobLog struct {
	JobID  string `json:"job_id"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

// TriggerRow is a trigger formatted for display.
type TriggerRow struct {
	Name             string     `json:"name"`
	Class            string     `json:"class"`
	Owner            string     `json:"owner"`
	Enabled          bool       `json:"enabled"`
	Updated          string     `json:"updated"`
	LastFailureCount int        `json:"last_failure_count"`
	Description      string     `json:"description,omitempty"`
	Input            string     `json:"input"`
	ActionMetadata   []KeyValue `json:"action_metadata,omitempty"`
}

// TriggerList contains every trigger.
type TriggerList struct {
	Triggers     []*TriggerRow `json:"triggers"`
	EnabledCount int           `json:"enabled_count"`
	FailingCount int           `json:"failing_count"`
}

// ModelListParams contains parameters for listing models.
type ModelListParams struct {
	// Name keeps only models with this name.
	Name string
	// All includes models tagged "hide".
	All bool
}

// ModelList contains the listed models.
type ModelList struct {
	Models     []*ModelRow `json:"models"`
	TotalCount int         `json:"total_count"`
	Names      []string    `json:"names"`
}

// ModelRow is a model formatted for display.
type ModelRow struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	JobID      string     `json:"job_id"`
	Created    string     `json:"created"`
	CreatedAgo string     `json:"created_ago"`
	Tags       []string   `json:"tags"`
	Production bool       `json:"production"`
	Hidden     bool       `json:"hidden"`
	Notes      string     `json:"notes,omitempty"`
	Metadata   []KeyValue `json:"metadata"`
	Metric     []KeyValue `json:"metric"`
}
