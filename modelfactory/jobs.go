package modelfactory

import (
	"context"

	"github.com/pkg/errors"
)

type jobRequest struct {
	JobID string `json:"job_id"`
}

type jobTagRequest struct {
	JobID string `json:"job_id"`
	Tag   string `json:"tag"`
}

// ListVisibleJobs returns every job not tagged "hide".
func (c *Client) ListVisibleJobs(ctx context.Context) ([]*Job, error) {
	var jobs []*Job
	if _, err := c.call(ctx, "get_info_for_all_visiable_jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJob returns a single job, or ErrNotFound.
func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	found, err := c.call(ctx, "get_info_for_single_job", jobRequest{JobID: jobID}, &job)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrNotFound, "job %s", jobID)
	}
	return &job, nil
}

// FindJobs returns the jobs matching a Mongo-style filter. A nil fields map
// returns whole documents.
func (c *Client) FindJobs(ctx context.Context, filter, fields map[string]any) ([]*Job, error) {
	encodedFilter, err := json.MarshalToString(filter)
	if err != nil {
		return nil, errors.Wrap(err, "encode job filter")
	}
	req := struct {
		JobFilter string  `json:"job_filter"`
		JobFields *string `json:"job_fields"`
	}{JobFilter: encodedFilter}
	if fields != nil {
		encodedFields, err := json.MarshalToString(fields)
		if err != nil {
			return nil, errors.Wrap(err, "encode job fields")
		}
		req.JobFields = &encodedFields
	}

	var jobs []*Job
	if _, err := c.call(ctx, "get_info_for_jobs", req, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// TagJob adds tag to a job.
func (c *Client) TagJob(ctx context.Context, jobID, tag string) error {
	_, err := c.call(ctx, "tag_job", jobTagRequest{JobID: jobID, Tag: tag}, nil)
	return err
}

// UntagJob removes tag from a job.
func (c *Client) UntagJob(ctx context.Context, jobID, tag string) error {
	_, err := c.call(ctx, "untag_job", jobTagRequest{JobID: jobID, Tag: tag}, nil)
	return err
}

// GetJobLog returns the log of the job's running pod. The boolean is false
// when the job has no pod.
func (c *Client) GetJobLog(ctx context.Context, jobID string) (string, bool, error) {
	var log string
	found, err := c.call(ctx, "get_k8s_job_log", jobRequest{JobID: jobID}, &log)
	if err != nil {
		return "", false, err
	}
	return log, found, nil
}

// GetArchivedJobLog returns the log archived after the job finished.
func (c *Client) GetArchivedJobLog(ctx context.Context, jobID string) (string, error) {
	var log string
	if _, err := c.call(ctx, "get_archived_job_log", jobRequest{JobID: jobID}, &log); err != nil {
		return "", err
	}
	return log, nil
}
