package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/youssefsiam38/mfdash/modelfactory"
)

// productionIDs returns the set of model ids currently in production.
func (s *Service) productionIDs(ctx context.Context) (map[string]bool, error) {
	prod, err := cached(s, "production", keyProduction, func() ([]*modelfactory.ProductionModel, error) {
		return s.backend.ListProductionModels(ctx, nil)
	})
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(prod))
	for _, p := range prod {
		ids[p.ModelID] = true
	}
	return ids, nil
}

// Models returns the models matching params, newest first.
func (s *Service) Models(ctx context.Context, params ModelListParams) (*ModelList, error) {
	key, filter := keyModelsVisible, modelfactory.VisibleModelsFilter()
	if params.All {
		key, filter = keyModelsAll, nil
	}
	models, err := cached(s, "models", key, func() ([]*modelfactory.Model, error) {
		return s.backend.ListModels(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	prod, err := s.productionIDs(ctx)
	if err != nil {
		return nil, err
	}

	list := &ModelList{Models: []*ModelRow{}}
	names := make([]string, 0, len(models))
	var matched []*modelfactory.Model
	for _, m := range models {
		names = append(names, m.ModelName)
		if params.Name != "" && m.ModelName != params.Name {
			continue
		}
		matched = append(matched, m)
	}
	list.Names = distinct(names)

	sort.SliceStable(matched, func(a, b int) bool {
		ta, tb := matched[a].Timestamp, matched[b].Timestamp
		switch {
		case ta == nil:
			return false
		case tb == nil:
			return true
		default:
			return *ta > *tb
		}
	})
	for _, m := range matched {
		list.Models = append(list.Models, s.modelRow(m, prod[m.ID]))
	}
	list.TotalCount = len(list.Models)
	return list, nil
}

// Model returns a single model.
func (s *Service) Model(ctx context.Context, id string) (*ModelRow, error) {
	model, err := cached(s, "model", keyModelPrefix+id, func() (*modelfactory.Model, error) {
		return s.backend.GetModel(ctx, id)
	})
	if err != nil {
		if errors.Is(err, modelfactory.ErrNotFound) {
			return nil, fmt.Errorf("%w: model %s", ErrNotFound, id)
		}
		return nil, err
	}
	prod, err := s.productionIDs(ctx)
	if err != nil {
		return nil, err
	}
	return s.modelRow(model, prod[model.ID]), nil
}

func (s *Service) invalidateModel(id string) {
	s.invalidate(keyModelsVisible, keyModelsAll, keyModelPrefix+id, keyProduction)
}

// TagModel adds tag to a model.
func (s *Service) TagModel(ctx context.Context, id, tag string) error {
	if !ValidateTag(tag) {
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	defer s.invalidateModel(id)
	return s.backend.TagModel(ctx, id, tag)
}

// UntagModel removes tag from a model.
func (s *Service) UntagModel(ctx context.Context, id, tag string) error {
	if !ValidateTag(tag) {
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	defer s.invalidateModel(id)
	return s.backend.UntagModel(ctx, id, tag)
}

// PromoteModel makes a model the production model for its name.
func (s *Service) PromoteModel(ctx context.Context, id string) error {
	defer s.invalidateModel(id)
	return s.backend.PromoteModel(ctx, id)
}

// DeleteModel deletes a model.
func (s *Service) DeleteModel(ctx context.Context, id string) error {
	defer s.invalidateModel(id)
	return s.backend.DeleteModel(ctx, id)
}
