package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/easy-books/easy-books-server/internal/apierrors"
	"github.com/easy-books/easy-books-server/internal/logger"
	"github.com/easy-books/easy-books-server/internal/model"
)

// Schema describes one owned resource kind.
type Schema[P any] struct {
	Kind model.ResourceKind
	// Validate checks a complete payload before it is stored.
	Validate func(v *validator.Validate, payload P) error
}

// Resource is the owner-scoped CRUD engine for one resource kind. Items owned
// by other users are reported as not found.
type Resource[P any] struct {
	store    model.ItemStore[P]
	schema   Schema[P]
	validate *validator.Validate
	logger   *logger.Logger
}

func NewResource[P any](
	store model.ItemStore[P],
	schema Schema[P],
	validate *validator.Validate,
	logger *logger.Logger,
) *Resource[P] {
	return &Resource[P]{
		store:    store,
		schema:   schema,
		validate: validate,
		logger:   logger.With("resource", schema.Kind.Name),
	}
}

func (s *Resource[P]) Create(ctx context.Context, ownerID uuid.UUID, payload P) (model.Item[P], error) {
	if err := s.schema.Validate(s.validate, payload); err != nil {
		return model.Item[P]{}, err
	}

	item, err := s.store.Create(ctx, model.Item[P]{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Payload: payload,
	})
	if err != nil {
		s.logger.Error("Resource service: failed to create item",
			"owner_id", ownerID,
			"error", err.Error())
		return model.Item[P]{}, s.mapStoreError(uuid.Nil, "failed to create item", err)
	}

	s.logger.Debug("Resource service: item created",
		"owner_id", ownerID,
		"item_id", item.ID)

	return item, nil
}

func (s *Resource[P]) Get(ctx context.Context, ownerID, id uuid.UUID) (model.Item[P], error) {
	item, err := s.store.Get(ctx, ownerID, id)
	if err != nil {
		return model.Item[P]{}, s.mapStoreError(id, "failed to get item", err)
	}

	return item, nil
}

// List returns one page of the owner's items. With GetAll set every item is
// returned as page 1 and the page fields of req are not checked.
func (s *Resource[P]) List(ctx context.Context, ownerID uuid.UUID, req model.PageRequest) (model.Page[P], error) {
	if req.GetAll {
		req.Page, req.PageLimit = 1, 1
	}
	if err := s.validate.Struct(req); err != nil {
		return model.Page[P]{}, apierrors.NewErrInvalidInput(ValidationMessage(err))
	}

	params := model.ListParams{
		Limit:      req.PageLimit,
		Offset:     (req.Page - 1) * req.PageLimit,
		OrderBy:    req.OrderBy,
		Descending: req.SortOrder == model.SortOrderDesc,
	}
	if req.GetAll {
		params.Limit, params.Offset = 0, 0
	}

	items, total, err := s.store.List(ctx, ownerID, params)
	if err != nil {
		s.logger.Error("Resource service: failed to list items",
			"owner_id", ownerID,
			"error", err.Error())
		return model.Page[P]{}, s.mapStoreError(uuid.Nil, "failed to list items", err)
	}

	if req.GetAll {
		req.PageLimit = total
	}

	return model.Page[P]{
		Items:      items,
		Page:       req.Page,
		PageLimit:  req.PageLimit,
		OrderBy:    req.OrderBy,
		SortOrder:  req.SortOrder,
		TotalCount: total,
	}, nil
}

// Update merges patch into the stored payload. When expectedVersion is set and
// differs from the stored version nothing is written.
func (s *Resource[P]) Update(ctx context.Context, ownerID, id uuid.UUID, patch model.Patch, expectedVersion *int64) (model.Item[P], error) {
	item, err := s.store.Update(ctx, ownerID, id, expectedVersion, func(current model.Item[P]) (P, error) {
		next, err := applyPatch(current.Payload, patch)
		if err != nil {
			return next, apierrors.NewErrInvalidInput(err.Error())
		}
		if err := s.schema.Validate(s.validate, next); err != nil {
			return next, err
		}
		return next, nil
	})
	if err != nil {
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) {
			return model.Item[P]{}, apiErr
		}
		if errors.Is(err, model.ErrVersionConflict) {
			s.logger.Info("Resource service: version conflict",
				"owner_id", ownerID,
				"item_id", id,
				"expected_version", *expectedVersion)
		}
		return model.Item[P]{}, s.mapStoreError(id, "failed to update item", err)
	}

	s.logger.Debug("Resource service: item updated",
		"owner_id", ownerID,
		"item_id", id,
		"version", item.Version)

	return item, nil
}

func (s *Resource[P]) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return s.mapStoreError(id, "failed to delete item", err)
	}

	s.logger.Debug("Resource service: item deleted",
		"owner_id", ownerID,
		"item_id", id)

	return nil
}

func (s *Resource[P]) mapStoreError(id uuid.UUID, msg string, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return apierrors.NewErrRecordNotFound(s.schema.Kind.Name, id)
	case errors.Is(err, model.ErrVersionConflict):
		return apierrors.NewErrVersionConflict(s.schema.Kind.Name, id)
	default:
		return storageError(msg, err)
	}
}

// applyPatch replaces the top-level fields of current named in patch and
// removes fields whose patch value is nil. Fields unknown to P are rejected.
func applyPatch[P any](current P, patch model.Patch) (P, error) {
	var next P

	raw, err := json.Marshal(current)
	if err != nil {
		return next, fmt.Errorf("failed to encode payload: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return next, fmt.Errorf("payload is not an object: %w", err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, len(patch))
	}

	for name, value := range patch {
		if value == nil {
			delete(fields, name)
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return next, fmt.Errorf("field %q: %w", name, err)
		}
		fields[name] = encoded
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return next, fmt.Errorf("failed to encode payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(&next); err != nil {
		return next, fmt.Errorf("invalid payload: %w", err)
	}

	return next, nil
}
