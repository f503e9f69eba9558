package modelfactory

import (
	"sort"
)

// Job statuses reported by the execution syncer.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusDeleted   = "deleted"
)

// HiddenTag hides jobs and models from the default listings.
const HiddenTag = "hide"

// Job is a tracked pipeline execution.
type Job struct {
	ID                  string         `json:"_id"`
	JobID               string         `json:"job_id"`
	ParentJobID         *string        `json:"parent_job_id"`
	PipelineName        string         `json:"pipeline_name"`
	PipelineParams      map[string]any `json:"pipeline_params"`
	OperatorID          *string        `json:"operator_id"`
	Pool                *string        `json:"pool"`
	Owner               string         `json:"owner"`
	DockerImageRepo     *string        `json:"docker_image_repo"`
	DockerImageTag      *string        `json:"docker_image_tag"`
	DockerImageDigest   *string        `json:"docker_image_digest"`
	ExecutionMode       *string        `json:"execution_mode"`
	Tags                []string       `json:"tags"`
	CreatorHost         string         `json:"creator_host"`
	Cmd                 string         `json:"cmd"`
	PodName             *string        `json:"pod_name"`
	IPAddr              *string        `json:"ip_addr"`
	Stage               string         `json:"stage"`
	Output              any            `json:"output"`
	TTLAfterFinished    any            `json:"ttl_after_finished"`
	Resources           Resources      `json:"resources"`
	Events              []Event        `json:"events"`
	CreationTimestamp   *float64       `json:"creation_timestamp"`
	StartTimestamp      *float64       `json:"start_timestamp"`
	CompletionTimestamp *float64       `json:"completion_timestamp"`
	Status              string         `json:"status"`
	ExitCode            *int           `json:"exit_code"`
	ExitReason          *string        `json:"exit_reason"`
	Exception           *string        `json:"exception"`
	Archived            bool           `json:"archived"`
}

// Key returns the job id, falling back to the document id.
func (j *Job) Key() string {
	if j.JobID != "" {
		return j.JobID
	}
	return j.ID
}

// HasTag reports whether the job carries tag.
func (j *Job) HasTag(tag string) bool {
	return hasTag(j.Tags, tag)
}

// Finished reports whether the job reached a terminal status.
func (j *Job) Finished() bool {
	switch j.Status {
	case StatusSucceeded, StatusFailed, StatusDeleted:
		return true
	}
	return j.CompletionTimestamp != nil
}

// Resources are the requests a job was scheduled with. CPU may be a number or
// a Kubernetes quantity string.
type Resources struct {
	CPURequest     any `json:"cpu_request"`
	MemoryRequest  any `json:"memory_request"`
	StorageRequest any `json:"storage_request"`
	GPURequest     any `json:"gpu_request"`
}

// Event is a timestamped entry of a job or production model history.
type Event struct {
	Timestamp *float64       `json:"timestamp"`
	Type      string         `json:"type"`
	Metadata  map[string]any `json:"metadata"`
}

// Trigger is a scheduled or conditional pipeline launcher.
type Trigger struct {
	Name             string         `json:"_id"`
	TriggerClass     string         `json:"trigger_class"`
	Owner            string         `json:"owner"`
	Enabled          bool           `json:"enabled"`
	UpdateTimestamp  *float64       `json:"update_timestamp"`
	InputJSON        string         `json:"input_json"`
	LastFailureCount int            `json:"last_failure_count"`
	ActionMetadata   map[string]any `json:"action_metadata"`
}

// Model is an entry of the model registry.
type Model struct {
	ID        string         `json:"_id"`
	ModelName string         `json:"model_name"`
	JobID     string         `json:"job_id"`
	Timestamp *float64       `json:"timestamp"`
	Tags      []string       `json:"tags"`
	Metadata  string         `json:"metadata"`
	Metric    map[string]any `json:"metric"`
}

// HasTag reports whether the model carries tag.
func (m *Model) HasTag(tag string) bool {
	return hasTag(m.Tags, tag)
}

// MetadataMap decodes the JSON-encoded metadata. Empty metadata decodes to
// an empty map.
func (m *Model) MetadataMap() (map[string]any, error) {
	out := map[string]any{}
	if m.Metadata == "" {
		return out, nil
	}
	if err := json.UnmarshalFromString(m.Metadata, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductionModel records which model currently serves a model name.
type ProductionModel struct {
	ModelName string  `json:"_id"`
	ModelID   string  `json:"model_id"`
	Events    []Event `json:"events"`
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
