package quote_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-repair/internal/common"
	"github.com/noah-isme/backend-repair/internal/pricing"
	"github.com/noah-isme/backend-repair/internal/quote"
)

var (
	modelID       = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	hallEffectID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	clickyID      = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	backButtonsID = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	basicOptID    = uuid.MustParse("55555555-5555-5555-5555-555555555555")
	premiumOptID  = uuid.MustParse("66666666-6666-6666-6666-666666666666")
	comboPairID   = uuid.MustParse("77777777-7777-7777-7777-777777777777")
)

type fakeCatalog struct {
	snapshots map[string]*pricing.Snapshot
}

func (f *fakeCatalog) Snapshot(_ context.Context, slug string) (*pricing.Snapshot, error) {
	snap, ok := f.snapshots[slug]
	if !ok {
		return nil, &common.AppError{
			Code:       "UNKNOWN_MODEL",
			Message:    "controller model not found",
			HTTPStatus: http.StatusNotFound,
			Err:        pricing.ErrUnknownModel,
		}
	}
	return snap, nil
}

func testCatalog() *fakeCatalog {
	snap := pricing.NewSnapshot(
		pricing.Model{ID: modelID, Slug: "dualsense", Name: "DualSense"},
		[]pricing.Service{
			{
				ID: hallEffectID, Slug: "hall-effect-sticks", Name: "Hall Effect Sticks", BasePrice: 25000,
				Options: []pricing.Option{
					{ID: basicOptID, ServiceID: hallEffectID, Name: "Basic", AdditionalPrice: 0},
					{ID: premiumOptID, ServiceID: hallEffectID, Name: "Premium", AdditionalPrice: 15000},
				},
			},
			{ID: clickyID, Slug: "clicky-buttons", Name: "Clicky Buttons", BasePrice: 25000},
			{ID: backButtonsID, Slug: "back-buttons", Name: "Back Buttons", BasePrice: 20000},
		},
		[]pricing.Override{
			{TargetType: pricing.TargetService, TargetID: clickyID, Price: 20000},
		},
		[]pricing.ComboRule{
			{
				ID: comboPairID, Name: "Stick & Button Pair", MatchKind: pricing.MatchExact,
				RequiredServiceIDs: []uuid.UUID{hallEffectID, clickyID},
				DiscountType:       pricing.DiscountPercentage, DiscountValue: 10, Active: true,
			},
		},
	)
	return &fakeCatalog{snapshots: map[string]*pricing.Snapshot{"dualsense": snap}}
}

func newHandler() *quote.Handler {
	return &quote.Handler{Svc: &quote.Service{
		Catalog:  testCatalog(),
		Validate: validator.New(),
		Currency: "KRW",
	}}
}

func postQuote(t *testing.T, h *quote.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.Quote(rec, req)
	return rec
}

type quoteResponse struct {
	Data quote.Output `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func TestQuoteComboAndFloor(t *testing.T) {
	h := newHandler()
	rec := postQuote(t, h, quote.Input{
		Model: "dualsense",
		Selections: []quote.SelectionInput{
			{ServiceID: hallEffectID.String()},
			{ServiceID: clickyID.String()},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "KRW", resp.Data.Currency)
	require.Equal(t, int64(45000), resp.Data.Subtotal)
	require.NotNil(t, resp.Data.AppliedCombo)
	require.Equal(t, "Stick & Button Pair", resp.Data.AppliedCombo.Name)
	require.Equal(t, int64(4500), resp.Data.Discount)
	require.Equal(t, int64(40500), resp.Data.Total)
	require.Len(t, resp.Data.LineItems, 2)
}

func TestQuoteOptionUpgrade(t *testing.T) {
	h := newHandler()
	optID := premiumOptID.String()
	rec := postQuote(t, h, quote.Input{
		Model: "dualsense",
		Selections: []quote.SelectionInput{
			{ServiceID: hallEffectID.String(), OptionID: &optID},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(40000), resp.Data.Subtotal)
	require.Nil(t, resp.Data.AppliedCombo)
	require.Equal(t, int64(40000), resp.Data.Total)
}

func TestQuoteEmptySelection(t *testing.T) {
	h := newHandler()
	rec := postQuote(t, h, quote.Input{Model: "dualsense"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(0), resp.Data.Subtotal)
	require.Equal(t, int64(0), resp.Data.Total)
	require.Empty(t, resp.Data.LineItems)
}

func TestQuoteErrors(t *testing.T) {
	h := newHandler()

	t.Run("unknown model", func(t *testing.T) {
		rec := postQuote(t, h, quote.Input{Model: "steam-deck"})
		require.Equal(t, http.StatusNotFound, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "UNKNOWN_MODEL", resp.Error.Code)
	})

	t.Run("stale service reference", func(t *testing.T) {
		rec := postQuote(t, h, quote.Input{
			Model:      "dualsense",
			Selections: []quote.SelectionInput{{ServiceID: uuid.NewString()}},
		})
		require.Equal(t, http.StatusConflict, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "CATALOG_STALE", resp.Error.Code)
	})

	t.Run("option from another service", func(t *testing.T) {
		optID := premiumOptID.String()
		rec := postQuote(t, h, quote.Input{
			Model: "dualsense",
			Selections: []quote.SelectionInput{
				{ServiceID: clickyID.String(), OptionID: &optID},
			},
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "INVALID_SELECTION", resp.Error.Code)
	})

	t.Run("duplicate service", func(t *testing.T) {
		rec := postQuote(t, h, quote.Input{
			Model: "dualsense",
			Selections: []quote.SelectionInput{
				{ServiceID: backButtonsID.String()},
				{ServiceID: backButtonsID.String()},
			},
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing model", func(t *testing.T) {
		rec := postQuote(t, h, quote.Input{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "BAD_REQUEST", resp.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		h.Quote(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
