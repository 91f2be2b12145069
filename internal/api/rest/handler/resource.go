package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/easy-books/easy-books-server/internal/api/rest/respond"
	"github.com/easy-books/easy-books-server/internal/apierrors"
	"github.com/easy-books/easy-books-server/internal/logger"
	"github.com/easy-books/easy-books-server/internal/model"
)

const (
	defaultPage      = 1
	defaultPageLimit = 20
)

// ResourceService defines owner-scoped item operations.
type ResourceService[P any] interface {
	Create(ctx context.Context, ownerID uuid.UUID, payload P) (model.Item[P], error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (model.Item[P], error)
	List(ctx context.Context, ownerID uuid.UUID, req model.PageRequest) (model.Page[P], error)
	Update(ctx context.Context, ownerID, id uuid.UUID, patch model.Patch, expectedVersion *int64) (model.Item[P], error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// Resource handles HTTP endpoints for one kind of owned item.
type Resource[P any] struct {
	service        ResourceService[P]
	contextManager model.ContextManager
	kind           model.ResourceKind
	logger         *logger.Logger
}

// NewResource creates a new Resource handler.
func NewResource[P any](
	service ResourceService[P],
	contextManager model.ContextManager,
	kind model.ResourceKind,
	logger *logger.Logger,
) *Resource[P] {
	return &Resource[P]{
		service:        service,
		contextManager: contextManager,
		kind:           kind,
		logger:         logger,
	}
}

type createRequest[P any] struct {
	Payload P `json:"payload"`
}

type updateRequest struct {
	Payload         model.Patch `json:"payload"`
	ExpectedVersion *int64      `json:"expected_version"`
}

type itemResponse[P any] struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Payload   P         `json:"payload"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listResponse[P any] struct {
	Records    []itemResponse[P] `json:"records"`
	Page       int               `json:"page"`
	PageLimit  int               `json:"page_limit"`
	OrderBy    string            `json:"order_by"`
	SortOrder  string            `json:"sort_order"`
	TotalCount int               `json:"total_count"`
}

func toItemResponse[P any](item model.Item[P]) itemResponse[P] {
	return itemResponse[P]{
		ID:        item.ID,
		OwnerID:   item.OwnerID,
		Payload:   item.Payload,
		Version:   item.Version,
		CreatedAt: item.CreatedAt.UTC(),
		UpdatedAt: item.UpdatedAt.UTC(),
	}
}

// Create stores a new item for the caller.
func (h *Resource[P]) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req createRequest[P]
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	item, err := h.service.Create(r.Context(), ownerID, req.Payload)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Resource handler: item created",
		"kind", h.kind.Name,
		"id", item.ID,
		"owner_id", ownerID)

	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+item.ID.String())
	respond.JSON(w, http.StatusCreated, toItemResponse(item))
}

// Get returns one of the caller's items.
func (h *Resource[P]) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), ownerID, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, toItemResponse(item))
}

// List returns a page of the caller's items.
func (h *Resource[P]) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	req, err := parsePageRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, err := h.service.List(r.Context(), ownerID, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	records := make([]itemResponse[P], 0, len(page.Items))
	for _, item := range page.Items {
		records = append(records, toItemResponse(item))
	}

	respond.JSON(w, http.StatusOK, listResponse[P]{
		Records:    records,
		Page:       page.Page,
		PageLimit:  page.PageLimit,
		OrderBy:    page.OrderBy,
		SortOrder:  page.SortOrder,
		TotalCount: page.TotalCount,
	})
}

// Update merges a partial payload into one of the caller's items.
func (h *Resource[P]) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	item, err := h.service.Update(r.Context(), ownerID, id, req.Payload, req.ExpectedVersion)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Resource handler: item updated",
		"kind", h.kind.Name,
		"id", item.ID,
		"version", item.Version)

	respond.JSON(w, http.StatusOK, toItemResponse(item))
}

// Delete removes one of the caller's items.
func (h *Resource[P]) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ownerID, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Resource handler: item deleted",
		"kind", h.kind.Name,
		"id", id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Resource[P]) ownerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return uuid.Nil, false
	}
	return ownerID, true
}

func (h *Resource[P]) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, r, h.logger, apierrors.NewErrMalformedID(h.kind.Name, raw))
		return uuid.Nil, false
	}
	return id, true
}

func parsePageRequest(r *http.Request) (model.PageRequest, error) {
	q := r.URL.Query()

	req := model.PageRequest{
		Page:      defaultPage,
		PageLimit: defaultPageLimit,
		OrderBy:   model.OrderByCreatedAt,
		SortOrder: model.SortOrderAsc,
	}

	var err error
	if v := q.Get("page"); v != "" {
		if req.Page, err = strconv.Atoi(v); err != nil {
			return model.PageRequest{}, apierrors.NewErrInvalidInput("page: must be an integer")
		}
	}
	if v := q.Get("page_limit"); v != "" {
		if req.PageLimit, err = strconv.Atoi(v); err != nil {
			return model.PageRequest{}, apierrors.NewErrInvalidInput("page_limit: must be an integer")
		}
	}
	if v := q.Get("order_by"); v != "" {
		req.OrderBy = v
	}
	if v := q.Get("sort_order"); v != "" {
		req.SortOrder = v
	}
	if v := q.Get("get_all"); v != "" {
		if req.GetAll, err = strconv.ParseBool(v); err != nil {
			return model.PageRequest{}, apierrors.NewErrInvalidInput("get_all: must be a boolean")
		}
	}

	return req, nil
}
