package pricing

import "github.com/google/uuid"

// Money represents a monetary value stored in minor units.
type Money = int64

// TargetType distinguishes which catalog entity a price override replaces.
type TargetType string

const (
	// TargetService overrides a service base price.
	TargetService TargetType = "service"
	// TargetOption overrides an option additional price.
	TargetOption TargetType = "option"
)

// MatchKind selects the matching strategy of a combo rule.
type MatchKind string

const (
	// MatchExact requires every listed service id to be present in the selection.
	MatchExact MatchKind = "exact"
	// MatchCountThreshold requires the selection to contain at least MinCount services.
	MatchCountThreshold MatchKind = "count_threshold"
)

// DiscountType describes how a combo rule's discount value is interpreted.
type DiscountType string

const (
	// DiscountPercentage applies DiscountValue as a whole percentage of the subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies DiscountValue as a fixed amount in minor units.
	DiscountFixed DiscountType = "fixed"
)

// Model identifies the controller being repaired.
type Model struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	DisplayOrder int32     `json:"displayOrder"`
}

// Option belongs to exactly one service and adds to its price when selected.
type Option struct {
	ID              uuid.UUID `json:"id"`
	ServiceID       uuid.UUID `json:"serviceId"`
	Name            string    `json:"name"`
	AdditionalPrice Money     `json:"additionalPrice"`
}

// Service is a repair service catalog entry. Options are held in catalog
// declaration order; the first one is the default when the service is selected.
type Service struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	BasePrice    Money     `json:"basePrice"`
	DisplayOrder int32     `json:"displayOrder"`
	Options      []Option  `json:"options"`
}

// Override replaces the catalog base price of one target for the snapshot's model.
type Override struct {
	TargetType TargetType `json:"targetType"`
	TargetID   uuid.UUID  `json:"targetId"`
	Price      Money      `json:"price"`
}

// ComboRule grants a discount when the selection satisfies its match condition.
type ComboRule struct {
	ID                 uuid.UUID    `json:"id"`
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	MatchKind          MatchKind    `json:"matchKind"`
	RequiredServiceIDs []uuid.UUID  `json:"requiredServiceIds"`
	MinCount           int          `json:"minCount"`
	DiscountType       DiscountType `json:"discountType"`
	DiscountValue      int64        `json:"discountValue"`
	Active             bool         `json:"active"`
}

type overrideKey struct {
	targetType TargetType
	targetID   uuid.UUID
}

// Snapshot is an immutable view of the catalog scoped to one controller model.
// All lookups during a computation go through the snapshot so that a concurrent
// catalog refresh can never mix pre- and post-refresh data.
type Snapshot struct {
	Model    Model
	Services []Service
	Combos   []ComboRule

	servicesByID map[uuid.UUID]*Service
	optionsByID  map[uuid.UUID]*Option
	overrides    map[overrideKey]Money
}

// NewSnapshot builds a snapshot with its lookup indexes. Services and combos
// must already be filtered to active records and sorted in catalog order.
func NewSnapshot(model Model, services []Service, overrides []Override, combos []ComboRule) *Snapshot {
	snap := &Snapshot{
		Model:        model,
		Services:     services,
		Combos:       combos,
		servicesByID: make(map[uuid.UUID]*Service, len(services)),
		optionsByID:  make(map[uuid.UUID]*Option, len(services)),
		overrides:    make(map[overrideKey]Money, len(overrides)),
	}
	for i := range snap.Services {
		svc := &snap.Services[i]
		snap.servicesByID[svc.ID] = svc
		for j := range svc.Options {
			opt := &svc.Options[j]
			snap.optionsByID[opt.ID] = opt
		}
	}
	for _, ov := range overrides {
		snap.overrides[overrideKey{targetType: ov.TargetType, targetID: ov.TargetID}] = ov.Price
	}
	return snap
}

// ServiceByID returns the service with the given id, if present.
func (s *Snapshot) ServiceByID(id uuid.UUID) (*Service, bool) {
	svc, ok := s.servicesByID[id]
	return svc, ok
}

// OptionByID returns the option with the given id, if present.
func (s *Snapshot) OptionByID(id uuid.UUID) (*Option, bool) {
	opt, ok := s.optionsByID[id]
	return opt, ok
}
