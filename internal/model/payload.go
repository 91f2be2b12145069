package model

import "time"

// InventoryPayload is a schema-free mapping of named item fields.
type InventoryPayload map[string]any

// RelationshipPayload describes a business contact.
type RelationshipPayload struct {
	Name        string `json:"name" validate:"required,max=200"`
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,max=32"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// PurchasePayload records a vehicle bought for parts. RelationshipID refers
// to the seller.
type PurchasePayload struct {
	CompanyName    string    `json:"company_name" validate:"required,max=200"`
	VehicleName    string    `json:"vehicle_name" validate:"required,max=200"`
	Price          float64   `json:"price" validate:"gte=0"`
	Date           time.Time `json:"date" validate:"required"`
	RelationshipID string    `json:"relationship_id,omitempty" validate:"omitempty,uuid"`
}

// SalePayload records a part sold out of inventory.
type SalePayload struct {
	InventoryID    string    `json:"inventory_id" validate:"required,uuid"`
	PurchaseID     string    `json:"purchase_id,omitempty" validate:"omitempty,uuid"`
	RelationshipID string    `json:"relationship_id,omitempty" validate:"omitempty,uuid"`
	Price          float64   `json:"price" validate:"gte=0"`
	Date           time.Time `json:"date" validate:"required"`
	Credit         bool      `json:"credit"`
	Returned       bool      `json:"returned"`
}

// MiscellaneousPayload is an expense that belongs to no purchase or sale.
type MiscellaneousPayload struct {
	Description string    `json:"description" validate:"required,max=1000"`
	Price       float64   `json:"price" validate:"gte=0"`
	Date        time.Time `json:"date" validate:"required"`
}
