package service

import (
	"fmt"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/youssefsiam38/mfdash/format"
	"github.com/youssefsiam38/mfdash/modelfactory"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (s *Service) jobRow(j *modelfactory.Job) *JobRow {
	now := s.now()
	row := &JobRow{
		ID:         j.Key(),
		ParentID:   deref(j.ParentJobID),
		Pipeline:   j.PipelineName,
		Owner:      j.Owner,
		Status:     j.Status,
		Stage:      j.Stage,
		Pool:       deref(j.Pool),
		Tags:       j.Tags,
		Created:    format.Timestamp(j.CreationTimestamp),
		CreatedAgo: format.Ago(j.CreationTimestamp, now),
		Started:    format.Timestamp(j.StartTimestamp),
		Completed:  format.Timestamp(j.CompletionTimestamp),
		ExitCode:   j.ExitCode,
		ExitReason: deref(j.ExitReason),
		Finished:   j.Finished(),
	}
	if row.Tags == nil {
		row.Tags = []string{}
	}
	end := j.CompletionTimestamp
	if end == nil && row.Finished {
		// A terminal job without a completion time has no meaningful running duration.
		end = j.StartTimestamp
	}
	if elapsed, ok := format.Elapsed(j.StartTimestamp, end, now); ok {
		row.Duration = format.DurationString(elapsed)
	}
	return row
}

func (s *Service) jobDetail(j *modelfactory.Job) *JobDetail {
	d := &JobDetail{
		JobRow:      s.jobRow(j),
		Cmd:         j.Cmd,
		CreatorHost: j.CreatorHost,
		Mode:        deref(j.ExecutionMode),
		PodName:     deref(j.PodName),
		Exception:   deref(j.Exception),
		Params:      keyValues(j.PipelineParams),
		Resources: nonEmpty([]KeyValue{
			{Key: "cpu", Value: stringify(j.Resources.CPURequest)},
			{Key: "memory", Value: stringify(j.Resources.MemoryRequest)},
			{Key: "storage", Value: stringify(j.Resources.StorageRequest)},
			{Key: "gpu", Value: stringify(j.Resources.GPURequest)},
		}),
		Events: make([]*EventRow, 0, len(j.Events)),
	}
	if repo := deref(j.DockerImageRepo); repo != "" {
		d.Image = repo
		if tag := deref(j.DockerImageTag); tag != "" {
			d.Image += ":" + tag
		}
		if digest := deref(j.DockerImageDigest); digest != "" {
			d.Image += "@" + digest
		}
	}
	if j.Output != nil {
		d.Output = stringify(j.Output)
	}
	for _, e := range j.Events {
		d.Events = append(d.Events, &EventRow{
			Time:     format.Timestamp(e.Timestamp),
			Type:     e.Type,
			Metadata: keyValues(e.Metadata),
		})
	}
	return d
}

func (s *Service) triggerRow(t *modelfactory.Trigger) *TriggerRow {
	row := &TriggerRow{
		Name:             t.Name,
		Class:            t.TriggerClass,
		Owner:            t.Owner,
		Enabled:          t.Enabled,
		Updated:          format.Timestamp(t.UpdateTimestamp),
		LastFailureCount: t.LastFailureCount,
		Input:            t.InputJSON,
		ActionMetadata:   keyValues(t.ActionMetadata),
	}
	var input map[string]any
	if t.InputJSON != "" && json.UnmarshalFromString(t.InputJSON, &input) == nil {
		if desc, ok := input["description"].(string); ok {
			row.Description = desc
		}
		if pretty, err := json.MarshalIndent(input, "", "  "); err == nil {
			row.Input = string(pretty)
		}
	}
	return row
}

func (s *Service) modelRow(m *modelfactory.Model, production bool) *ModelRow {
	row := &ModelRow{
		ID:         m.ID,
		Name:       m.ModelName,
		JobID:      m.JobID,
		Created:    format.Timestamp(m.Timestamp),
		CreatedAgo: format.Ago(m.Timestamp, s.now()),
		Tags:       m.Tags,
		Production: production,
		Hidden:     m.HasTag(modelfactory.HiddenTag),
		Metric:     keyValues(m.Metric),
	}
	if row.Tags == nil {
		row.Tags = []string{}
	}
	meta, err := m.MetadataMap()
	if err != nil {
		// Metadata written by hand may not be valid JSON; show it raw.
		row.Metadata = []KeyValue{{Key: "metadata", Value: m.Metadata}}
		return row
	}
	for _, key := range []string{"notes", "description"} {
		if notes, ok := meta[key].(string); ok {
			row.Notes = notes
			delete(meta, key)
			break
		}
	}
	row.Metadata = keyValues(meta)
	return row
}

// keyValues flattens m into display pairs ordered by key.
func keyValues(m map[string]any) []KeyValue {
	out := make([]KeyValue, 0, len(m))
	for _, k := range modelfactory.SortedKeys(m) {
		out = append(out, KeyValue{Key: k, Value: stringify(m[k])})
	}
	return out
}

func nonEmpty(kvs []KeyValue) []KeyValue {
	out := kvs[:0]
	for _, kv := range kvs {
		if kv.Value != "" {
			out = append(out, kv)
		}
	}
	return out
}

// stringify renders a decoded JSON value for display.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// distinct returns the sorted distinct non-empty values.
func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
