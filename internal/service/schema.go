package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/easy-books/easy-books-server/internal/apierrors"
	"github.com/easy-books/easy-books-server/internal/model"
)

const (
	maxInventoryFields       = 64
	maxInventoryPayloadBytes = 64 << 10
)

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// InventorySchema accepts any JSON object with between 1 and 64 short,
// printable field names, up to 64KiB encoded.
func InventorySchema() Schema[model.InventoryPayload] {
	return Schema[model.InventoryPayload]{
		Kind:     model.InventoryKind,
		Validate: validateInventory,
	}
}

// RelationshipSchema validates contacts with struct tags.
func RelationshipSchema() Schema[model.RelationshipPayload] {
	return structSchema[model.RelationshipPayload](model.RelationshipKind)
}

func PurchaseSchema() Schema[model.PurchasePayload] {
	return structSchema[model.PurchasePayload](model.PurchaseKind)
}

func SaleSchema() Schema[model.SalePayload] {
	return structSchema[model.SalePayload](model.SaleKind)
}

func MiscellaneousSchema() Schema[model.MiscellaneousPayload] {
	return structSchema[model.MiscellaneousPayload](model.MiscellaneousKind)
}

// structSchema validates a struct payload with its validate tags. Referenced
// ids are checked for shape only.
func structSchema[P any](kind model.ResourceKind) Schema[P] {
	return Schema[P]{
		Kind: kind,
		Validate: func(v *validator.Validate, p P) error {
			if err := v.Struct(p); err != nil {
				return apierrors.NewErrInvalidInput(ValidationMessage(err))
			}
			return nil
		},
	}
}

func validateInventory(v *validator.Validate, p model.InventoryPayload) error {
	if len(p) == 0 {
		return apierrors.NewErrInvalidInput("payload must contain at least one field")
	}
	if len(p) > maxInventoryFields {
		return apierrors.NewErrInvalidInput(fmt.Sprintf("payload must not contain more than %d fields", maxInventoryFields))
	}

	for name := range p {
		if err := v.Var(name, "required,max=64,printascii"); err != nil {
			return apierrors.NewErrInvalidInput(fmt.Sprintf("invalid field name %q", name))
		}
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return apierrors.NewErrInvalidInput("payload is not valid JSON")
	}
	if len(raw) > maxInventoryPayloadBytes {
		return apierrors.NewErrInvalidInput(fmt.Sprintf("payload must not exceed %d bytes", maxInventoryPayloadBytes))
	}

	return nil
}

// ValidationMessage renders validator errors as "field: rule" pairs.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), rule))
	}

	return "invalid input: " + strings.Join(parts, ", ")
}
