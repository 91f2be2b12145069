package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// ResourceKind names an owned resource and the table that stores it.
type ResourceKind struct {
	Name  string
	Table string
}

var (
	InventoryKind     = ResourceKind{Name: "inventory", Table: "inventory"}
	RelationshipKind  = ResourceKind{Name: "relationship", Table: "relationships"}
	PurchaseKind      = ResourceKind{Name: "purchase", Table: "purchases"}
	SaleKind          = ResourceKind{Name: "sale", Table: "sales"}
	MiscellaneousKind = ResourceKind{Name: "miscellaneous", Table: "miscellaneous"}
)

// Item is a row owned by a single user.
type Item[P any] struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Payload   P
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch holds top-level payload fields to replace. A nil value removes the field.
type Patch map[string]any

// ListParams is a storage-level page request. A Limit of zero means no limit.
type ListParams struct {
	Limit      int
	Offset     int
	OrderBy    string
	Descending bool
}

// PageRequest is a client page request. GetAll returns every item in one
// page and ignores Page and PageLimit.
type PageRequest struct {
	Page      int    `json:"page" validate:"min=1"`
	PageLimit int    `json:"page_limit" validate:"min=1,max=100"`
	OrderBy   string `json:"order_by" validate:"oneof=created_at updated_at"`
	SortOrder string `json:"sort_order" validate:"oneof=asc desc"`
	GetAll    bool   `json:"get_all"`
}

// Page is one page of a caller's items.
type Page[P any] struct {
	Items      []Item[P]
	Page       int
	PageLimit  int
	OrderBy    string
	SortOrder  string
	TotalCount int
}

// ItemStore defines owner-scoped persistence operations for one resource kind.
type ItemStore[P any] interface {
	Create(ctx context.Context, item Item[P]) (Item[P], error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (Item[P], error)
	List(ctx context.Context, ownerID uuid.UUID, params ListParams) ([]Item[P], int, error)
	// Update locks the row, checks expectedVersion when set, and stores the payload
	// returned by mutate with the version bumped by one.
	Update(ctx context.Context, ownerID, id uuid.UUID, expectedVersion *int64, mutate func(Item[P]) (P, error)) (Item[P], error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
