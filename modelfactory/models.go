package modelfactory

import (
	"context"

	"github.com/pkg/errors"
)

type modelRequest struct {
	ModelID string `json:"model_id"`
}

type modelTagRequest struct {
	ModelID string `json:"model_id"`
	Tag     string `json:"tag"`
}

// VisibleModelsFilter selects models not tagged "hide".
func VisibleModelsFilter() map[string]any {
	return map[string]any{"tags": map[string]any{"$nin": []string{HiddenTag}}}
}

// ListModels returns the models matching a Mongo-style filter. A nil filter
// returns every model.
func (c *Client) ListModels(ctx context.Context, filter map[string]any) ([]*Model, error) {
	if filter == nil {
		filter = map[string]any{}
	}
	req := struct {
		ModelFilter map[string]any `json:"model_filter"`
	}{ModelFilter: filter}

	var models []*Model
	if _, err := c.call(ctx, "list_models", req, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// GetModel returns a single model, or ErrNotFound.
func (c *Client) GetModel(ctx context.Context, modelID string) (*Model, error) {
	var model Model
	found, err := c.call(ctx, "get_model_by_id", modelRequest{ModelID: modelID}, &model)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrNotFound, "model %s", modelID)
	}
	return &model, nil
}

// TagModel adds tag to a model.
func (c *Client) TagModel(ctx context.Context, modelID, tag string) error {
	_, err := c.call(ctx, "tag_model", modelTagRequest{ModelID: modelID, Tag: tag}, nil)
	return err
}

// UntagModel removes tag from a model.
func (c *Client) UntagModel(ctx context.Context, modelID, tag string) error {
	_, err := c.call(ctx, "untag_model", modelTagRequest{ModelID: modelID, Tag: tag}, nil)
	return err
}

// DeleteModel removes a model and its stored artifact.
func (c *Client) DeleteModel(ctx context.Context, modelID string) error {
	_, err := c.call(ctx, "delete_model", modelRequest{ModelID: modelID}, nil)
	return err
}

// PromoteModel makes the model the production model for its name.
func (c *Client) PromoteModel(ctx context.Context, modelID string) error {
	_, err := c.call(ctx, "promote_model", modelRequest{ModelID: modelID}, nil)
	return err
}

// ListProductionModels returns the production entries for names, or all of
// them when names is empty.
func (c *Client) ListProductionModels(ctx context.Context, names []string) ([]*ProductionModel, error) {
	req := struct {
		ModelNames []string `json:"model_names"`
	}{}
	if len(names) > 0 {
		req.ModelNames = names
	}

	var prod []*ProductionModel
	if _, err := c.call(ctx, "list_production_models", req, &prod); err != nil {
		return nil, err
	}
	return prod, nil
}
