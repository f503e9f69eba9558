package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/youssefsiam38/mfdash/modelfactory"
)

// Triggers returns every trigger ordered by name.
func (s *Service) Triggers(ctx context.Context) (*TriggerList, error) {
	triggers, err := cached(s, "triggers", keyTriggers, func() ([]*modelfactory.Trigger, error) {
		return s.backend.ListTriggers(ctx)
	})
	if err != nil {
		return nil, err
	}

	list := &TriggerList{Triggers: make([]*TriggerRow, 0, len(triggers))}
	for _, t := range triggers {
		row := s.triggerRow(t)
		if row.Enabled {
			list.EnabledCount++
		}
		if row.LastFailureCount > 0 {
			list.FailingCount++
		}
		list.Triggers = append(list.Triggers, row)
	}
	sort.Slice(list.Triggers, func(a, b int) bool {
		return list.Triggers[a].Name < list.Triggers[b].Name
	})
	return list, nil
}

// SetTriggerEnabled enables or disables a trigger.
func (s *Service) SetTriggerEnabled(ctx context.Context, name string, enabled bool) error {
	defer s.invalidate(keyTriggers)

	var err error
	if enabled {
		err = s.backend.EnableTrigger(ctx, name)
	} else {
		err = s.backend.DisableTrigger(ctx, name)
	}
	if errors.Is(err, modelfactory.ErrNotFound) {
		return fmt.Errorf("%w: trigger %s", ErrNotFound, name)
	}
	return err
}
