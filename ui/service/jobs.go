package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/youssefsiam38/mfdash/modelfactory"
)

func (s *Service) visibleJobs(ctx context.Context) ([]*modelfactory.Job, error) {
	return cached(s, "jobs", keyJobs, func() ([]*modelfactory.Job, error) {
		return s.backend.ListVisibleJobs(ctx)
	})
}

// Jobs returns the visible jobs matching params, newest first.
func (s *Service) Jobs(ctx context.Context, params JobListParams) (*JobList, error) {
	jobs, err := s.visibleJobs(ctx)
	if err != nil {
		return nil, err
	}

	params.Limit = ValidateLimit(params.Limit)
	params.Offset = ValidateOffset(params.Offset)

	list := &JobList{
		Jobs:     []*JobRow{},
		Limit:    params.Limit,
		Offset:   params.Offset,
		ByStatus: make(map[string]int),
	}

	owners := make([]string, 0, len(jobs))
	pipelines := make([]string, 0, len(jobs))
	var matched []*modelfactory.Job
	for _, j := range jobs {
		owners = append(owners, j.Owner)
		pipelines = append(pipelines, j.PipelineName)
		list.ByStatus[j.Status]++
		if matchJob(j, params) {
			matched = append(matched, j)
		}
	}
	list.Owners = distinct(owners)
	list.Pipelines = distinct(pipelines)

	sortJobsNewestFirst(matched)

	list.TotalCount = len(matched)
	if params.Offset < len(matched) {
		end := params.Offset + params.Limit
		if end > len(matched) {
			end = len(matched)
		}
		for _, j := range matched[params.Offset:end] {
			list.Jobs = append(list.Jobs, s.jobRow(j))
		}
		list.HasMore = end < len(matched)
	}
	return list, nil
}

func matchJob(j *modelfactory.Job, params JobListParams) bool {
	if params.Status != "" && j.Status != params.Status {
		return false
	}
	if params.Owner != "" && j.Owner != params.Owner {
		return false
	}
	if params.Pipeline != "" && j.PipelineName != params.Pipeline {
		return false
	}
	if params.Tag != "" && !j.HasTag(params.Tag) {
		return false
	}
	return true
}

// sortJobsNewestFirst orders by creation time, newest first. Jobs without a
// creation time go last; ties keep id order so pages are stable.
func sortJobsNewestFirst(jobs []*modelfactory.Job) {
	sort.SliceStable(jobs, func(a, b int) bool {
		ta, tb := jobs[a].CreationTimestamp, jobs[b].CreationTimestamp
		switch {
		case ta == nil && tb == nil:
			return jobs[a].Key() < jobs[b].Key()
		case ta == nil:
			return false
		case tb == nil:
			return true
		case *ta != *tb:
			return *ta > *tb
		default:
			return jobs[a].Key() < jobs[b].Key()
		}
	})
}

// Job returns a single job with its history.
func (s *Service) Job(ctx context.Context, id string) (*JobDetail, error) {
	job, err := cached(s, "job", keyJobPrefix+id, func() (*modelfactory.Job, error) {
		return s.backend.GetJob(ctx, id)
	})
	if err != nil {
		if errors.Is(err, modelfactory.ErrNotFound) {
			return nil, fmt.Errorf("%w: job %s", ErrNotFound, id)
		}
		return nil, err
	}
	return s.jobDetail(job), nil
}

// JobLog returns the live pod log of a job, or its archived log once the pod
// is gone. Logs are never cached.
func (s *Service) JobLog(ctx context.Context, id string) (*JobLog, error) {
	text, found, err := s.backend.GetJobLog(ctx, id)
	if err != nil {
		return nil, err
	}
	if found {
		return &JobLog{JobID: id, Source: LogSourcePod, Text: text}, nil
	}

	text, err = s.backend.GetArchivedJobLog(ctx, id)
	if err != nil {
		return nil, err
	}
	return &JobLog{JobID: id, Source: LogSourceArchive, Text: text}, nil
}

// TagJob adds tag to a job. Tagging a job "hide" removes it from the list.
func (s *Service) TagJob(ctx context.Context, id, tag string) error {
	if !ValidateTag(tag) {
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	defer s.invalidate(keyJobs, keyJobPrefix+id)
	return s.backend.TagJob(ctx, id, tag)
}

// UntagJob removes tag from a job.
func (s *Service) UntagJob(ctx context.Context, id, tag string) error {
	if !ValidateTag(tag) {
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	defer s.invalidate(keyJobs, keyJobPrefix+id)
	return s.backend.UntagJob(ctx, id, tag)
}
