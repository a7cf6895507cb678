package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-repair/internal/common"
	"github.com/noah-isme/backend-repair/internal/db"
	"github.com/noah-isme/backend-repair/internal/lock"
	"github.com/noah-isme/backend-repair/internal/pricing"
)

type queryProvider interface {
	ListActiveModels(ctx context.Context) ([]db.ControllerModel, error)
	GetModelBySlug(ctx context.Context, slug string) (db.ControllerModel, error)
	ListActiveServices(ctx context.Context) ([]db.RepairService, error)
	ListActiveServiceOptions(ctx context.Context) ([]db.ServiceOption, error)
	ListOverridesByModel(ctx context.Context, modelID pgtype.UUID) ([]db.PriceOverride, error)
	ListActiveComboRules(ctx context.Context) ([]db.ComboRule, error)
}

// Service loads the repair catalog and assembles per-model pricing snapshots.
type Service struct {
	queries queryProvider
	cache   *Cache
	lock    *lock.Locker
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries queryProvider
	Cache   *Cache
	Lock    *lock.Locker
}

// ModelSummary is the public list representation of a controller model.
type ModelSummary struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// OptionView is an option with its effective additional price for one model.
type OptionView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AdditionalPrice int64  `json:"additionalPrice"`
	Default         bool   `json:"default"`
}

// ServiceView is a service with its effective price for one model.
type ServiceView struct {
	ID      string       `json:"id"`
	Slug    string       `json:"slug"`
	Name    string       `json:"name"`
	Price   int64        `json:"price"`
	Options []OptionView `json:"options"`
}

// ModelDetail aggregates the model payload shown on a repair order page.
type ModelDetail struct {
	Model    ModelSummary  `json:"model"`
	Services []ServiceView `json:"services"`
}

// ComboView is the public representation of an active combo rule.
type ComboView struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	MatchKind          string   `json:"matchKind"`
	RequiredServiceIDs []string `json:"requiredServiceIds,omitempty"`
	MinCount           int      `json:"minCount,omitempty"`
	DiscountType       string   `json:"discountType"`
	DiscountValue      int64    `json:"discountValue"`
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	return &Service{queries: cfg.Queries, cache: cfg.Cache, lock: cfg.Lock}, nil
}

// ListModels returns active controller models in display order.
func (s *Service) ListModels(ctx context.Context) ([]ModelSummary, error) {
	if s.cache != nil {
		var cached []ModelSummary
		ok, err := s.cache.GetJSON(ctx, modelsCacheKey, &cached)
		if err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.queries.ListActiveModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	result := make([]ModelSummary, 0, len(rows))
	for _, row := range rows {
		result = append(result, ModelSummary{
			ID:   uuidString(row.ID),
			Slug: row.Slug,
			Name: row.Name,
		})
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, modelsCacheKey, result)
	}
	return result, nil
}

// Snapshot builds the pricing snapshot scoped to one controller model. The
// snapshot is cached as a plain DTO and re-indexed on read so concurrent
// catalog edits never leak into an in-flight computation.
func (s *Service) Snapshot(ctx context.Context, modelSlug string) (*pricing.Snapshot, error) {
	modelSlug = strings.TrimSpace(modelSlug)
	if modelSlug == "" {
		return nil, unknownModel(modelSlug, nil)
	}
	cacheKey := snapshotCacheKey(modelSlug)
	if s.cache != nil {
		var cached snapshotDTO
		ok, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && ok {
			return cached.build(), nil
		}
	}

	// Rebuilds are serialised per model so a cold cache doesn't fan the same
	// six queries out once per concurrent request.
	if s.lock != nil {
		var snap *pricing.Snapshot
		err := s.lock.WithLock(ctx, "lock:"+cacheKey, 10*time.Second, func(ctx context.Context) error {
			if s.cache != nil {
				var cached snapshotDTO
				ok, err := s.cache.GetJSON(ctx, cacheKey, &cached)
				if err == nil && ok {
					snap = cached.build()
					return nil
				}
			}
			var err error
			snap, err = s.buildSnapshot(ctx, modelSlug, cacheKey)
			return err
		})
		return snap, err
	}
	return s.buildSnapshot(ctx, modelSlug, cacheKey)
}

func (s *Service) buildSnapshot(ctx context.Context, modelSlug, cacheKey string) (*pricing.Snapshot, error) {
	model, err := s.queries.GetModelBySlug(ctx, modelSlug)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return nil, unknownModel(modelSlug, err)
		}
		return nil, fmt.Errorf("get model by slug: %w", err)
	}
	services, err := s.queries.ListActiveServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	options, err := s.queries.ListActiveServiceOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list service options: %w", err)
	}
	overrides, err := s.queries.ListOverridesByModel(ctx, model.ID)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	combos, err := s.queries.ListActiveComboRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list combo rules: %w", err)
	}

	dto := buildSnapshotDTO(model, services, options, overrides, combos)
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cacheKey, dto)
	}
	return dto.build(), nil
}

// ModelDetail returns the model and its services priced for that model.
func (s *Service) ModelDetail(ctx context.Context, modelSlug string) (ModelDetail, error) {
	snap, err := s.Snapshot(ctx, modelSlug)
	if err != nil {
		return ModelDetail{}, err
	}
	detail := ModelDetail{
		Model: ModelSummary{
			ID:   snap.Model.ID.String(),
			Slug: snap.Model.Slug,
			Name: snap.Model.Name,
		},
		Services: make([]ServiceView, 0, len(snap.Services)),
	}
	for _, svc := range snap.Services {
		price, err := snap.EffectivePrice(pricing.TargetService, svc.ID)
		if err != nil {
			return ModelDetail{}, fmt.Errorf("effective service price: %w", err)
		}
		view := ServiceView{
			ID:      svc.ID.String(),
			Slug:    svc.Slug,
			Name:    svc.Name,
			Price:   price,
			Options: make([]OptionView, 0, len(svc.Options)),
		}
		for i, opt := range svc.Options {
			optPrice, err := snap.EffectivePrice(pricing.TargetOption, opt.ID)
			if err != nil {
				return ModelDetail{}, fmt.Errorf("effective option price: %w", err)
			}
			view.Options = append(view.Options, OptionView{
				ID:              opt.ID.String(),
				Name:            opt.Name,
				AdditionalPrice: optPrice,
				Default:         i == 0,
			})
		}
		detail.Services = append(detail.Services, view)
	}
	return detail, nil
}

// ListCombos returns the active combo rules visible for one model.
func (s *Service) ListCombos(ctx context.Context, modelSlug string) ([]ComboView, error) {
	snap, err := s.Snapshot(ctx, modelSlug)
	if err != nil {
		return nil, err
	}
	result := make([]ComboView, 0, len(snap.Combos))
	for _, rule := range snap.Combos {
		view := ComboView{
			ID:            rule.ID.String(),
			Name:          rule.Name,
			Description:   rule.Description,
			MatchKind:     string(rule.MatchKind),
			MinCount:      rule.MinCount,
			DiscountType:  string(rule.DiscountType),
			DiscountValue: rule.DiscountValue,
		}
		for _, id := range rule.RequiredServiceIDs {
			view.RequiredServiceIDs = append(view.RequiredServiceIDs, id.String())
		}
		result = append(result, view)
	}
	return result, nil
}

// snapshotDTO is the serialisable form of a pricing snapshot; the lookup
// indexes are rebuilt on read.
type snapshotDTO struct {
	Model     pricing.Model       `json:"model"`
	Services  []pricing.Service   `json:"services"`
	Overrides []pricing.Override  `json:"overrides"`
	Combos    []pricing.ComboRule `json:"combos"`
}

func (d snapshotDTO) build() *pricing.Snapshot {
	return pricing.NewSnapshot(d.Model, d.Services, d.Overrides, d.Combos)
}

func buildSnapshotDTO(model db.ControllerModel, services []db.RepairService, options []db.ServiceOption, overrides []db.PriceOverride, combos []db.ComboRule) snapshotDTO {
	dto := snapshotDTO{
		Model: pricing.Model{
			ID:           uuidValue(model.ID),
			Slug:         model.Slug,
			Name:         model.Name,
			DisplayOrder: model.DisplayOrder,
		},
	}

	optionsByService := make(map[uuid.UUID][]pricing.Option, len(services))
	for _, opt := range options {
		serviceID := uuidValue(opt.ServiceID)
		optionsByService[serviceID] = append(optionsByService[serviceID], pricing.Option{
			ID:              uuidValue(opt.ID),
			ServiceID:       serviceID,
			Name:            opt.Name,
			AdditionalPrice: opt.AdditionalPrice,
		})
	}
	dto.Services = make([]pricing.Service, 0, len(services))
	for _, svc := range services {
		id := uuidValue(svc.ID)
		dto.Services = append(dto.Services, pricing.Service{
			ID:           id,
			Slug:         svc.Slug,
			Name:         svc.Name,
			BasePrice:    svc.BasePrice,
			DisplayOrder: svc.DisplayOrder,
			Options:      optionsByService[id],
		})
	}

	dto.Overrides = make([]pricing.Override, 0, len(overrides))
	for _, ov := range overrides {
		dto.Overrides = append(dto.Overrides, pricing.Override{
			TargetType: pricing.TargetType(ov.TargetType),
			TargetID:   uuidValue(ov.TargetID),
			Price:      ov.Price,
		})
	}

	dto.Combos = make([]pricing.ComboRule, 0, len(combos))
	for _, rule := range combos {
		combo := pricing.ComboRule{
			ID:            uuidValue(rule.ID),
			Name:          rule.Name,
			MatchKind:     pricing.MatchKind(rule.MatchKind),
			DiscountType:  pricing.DiscountType(rule.DiscountType),
			DiscountValue: rule.DiscountValue,
			Active:        rule.Active,
		}
		if rule.Description.Valid {
			combo.Description = rule.Description.String
		}
		if rule.MinCount.Valid {
			combo.MinCount = int(rule.MinCount.Int32)
		}
		for _, id := range rule.RequiredServiceIDs {
			combo.RequiredServiceIDs = append(combo.RequiredServiceIDs, uuidValue(id))
		}
		dto.Combos = append(dto.Combos, combo)
	}
	return dto
}

func unknownModel(slug string, err error) *common.AppError {
	if err == nil {
		err = pricing.ErrUnknownModel
	} else {
		err = fmt.Errorf("%w: %w", pricing.ErrUnknownModel, err)
	}
	return &common.AppError{
		Code:       "UNKNOWN_MODEL",
		Message:    "controller model not found",
		HTTPStatus: http.StatusNotFound,
		Err:        err,
		Details:    map[string]any{"model": slug},
	}
}

func uuidValue(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return uuid.UUID(id.Bytes)
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}
