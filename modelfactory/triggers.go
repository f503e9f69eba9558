package modelfactory

import (
	"context"

	"github.com/pkg/errors"
)

type triggerRequest struct {
	TriggerName string `json:"trigger_name"`
}

// ListTriggers returns every trigger.
func (c *Client) ListTriggers(ctx context.Context) ([]*Trigger, error) {
	var triggers []*Trigger
	if _, err := c.call(ctx, "list_triggers", nil, &triggers); err != nil {
		return nil, err
	}
	return triggers, nil
}

// EnableTrigger enables a trigger and resets its failure count. It returns
// ErrNotFound when no trigger has that name.
func (c *Client) EnableTrigger(ctx context.Context, name string) error {
	return c.toggleTrigger(ctx, "enable_trigger", name)
}

// DisableTrigger disables a trigger.
func (c *Client) DisableTrigger(ctx context.Context, name string) error {
	return c.toggleTrigger(ctx, "disable_trigger", name)
}

func (c *Client) toggleTrigger(ctx context.Context, call, name string) error {
	// The service answers with the document as it was before the update.
	var previous Trigger
	found, err := c.call(ctx, call, triggerRequest{TriggerName: name}, &previous)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(ErrNotFound, "trigger %s", name)
	}
	return nil
}
