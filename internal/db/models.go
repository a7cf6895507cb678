package db

import "github.com/jackc/pgx/v5/pgtype"

// ControllerModel is a device model customers can file repairs for.
type ControllerModel struct {
	ID           pgtype.UUID
	Slug         string
	Name         string
	Active       bool
	DisplayOrder int32
}

// RepairService is a catalog service row.
type RepairService struct {
	ID           pgtype.UUID
	Slug         string
	Name         string
	BasePrice    int64
	Active       bool
	DisplayOrder int32
}

// ServiceOption is an optional upgrade belonging to one service.
type ServiceOption struct {
	ID              pgtype.UUID
	ServiceID       pgtype.UUID
	Name            string
	AdditionalPrice int64
	Active          bool
	DisplayOrder    int32
}

// PriceOverride replaces a base price for one (model, target) pair.
type PriceOverride struct {
	ModelID    pgtype.UUID
	TargetType string
	TargetID   pgtype.UUID
	Price      int64
}

// ComboRule is a discount rule row.
type ComboRule struct {
	ID                 pgtype.UUID
	Name               string
	Description        pgtype.Text
	MatchKind          string
	RequiredServiceIDs []pgtype.UUID
	MinCount           pgtype.Int4
	DiscountType       string
	DiscountValue      int64
	Active             bool
	DisplayOrder       int32
}

// RepairRequest is a submitted intake order.
type RepairRequest struct {
	ID               pgtype.UUID
	ModelID          pgtype.UUID
	Status           string
	Currency         string
	CustomerName     string
	CustomerPhone    pgtype.Text
	CustomerEmail    pgtype.Text
	Notes            pgtype.Text
	Subtotal         int64
	Discount         int64
	Total            int64
	AppliedComboName pgtype.Text
	CreatedAt        pgtype.Timestamptz
}

// RepairRequestItem is one priced line of a repair request. SortOrder keeps
// the customer's selection order stable across reads.
type RepairRequestItem struct {
	ID          pgtype.UUID
	RequestID   pgtype.UUID
	ServiceID   pgtype.UUID
	OptionID    pgtype.UUID
	ServiceName string
	OptionName  pgtype.Text
	UnitPrice   int64
	OptionPrice int64
	SortOrder   int32
}

// DomainEvent is a persisted domain event row.
type DomainEvent struct {
	ID          pgtype.UUID
	Topic       string
	AggregateID pgtype.UUID
	Payload     []byte
	OccurredAt  pgtype.Timestamptz
}
