package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/api/middleware"
	cartsvc "github.com/vitrinelabs/vitrine-backend/internal/cart"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

type stubCartService struct {
	view       *cartsvc.View
	err        error
	lastInput  cartsvc.SetItemInput
	lastCoupon string
}

func (s *stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) SetItem(ctx context.Context, userID uuid.UUID, input cartsvc.SetItemInput) (*cartsvc.View, error) {
	s.lastInput = input
	return s.view, s.err
}

func (s *stubCartService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*cartsvc.View, error) {
	s.lastCoupon = code
	return s.view, s.err
}

func (s *stubCartService) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	return s.view, s.err
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}

func TestCartFetchReturnsView(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: &cartsvc.View{ID: uuid.New(), SubtotalCents: 5000, TotalCents: 5000}}
	handler := CartFetch(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	envelope := decodeEnvelope(t, resp)
	if _, ok := envelope["data"]; !ok {
		t.Fatal("expected data envelope")
	}
}

func TestCartFetchRequiresAuth(t *testing.T) {
	t.Parallel()

	handler := CartFetch(&stubCartService{}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartSetItemDecodesPayload(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: &cartsvc.View{ID: uuid.New()}}
	handler := CartSetItem(svc, nil)

	variantID := uuid.New()
	body := `{"variant_id":"` + variantID.String() + `","quantity":3}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/cart", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastInput.VariantID != variantID || svc.lastInput.Quantity != 3 {
		t.Fatalf("unexpected input %+v", svc.lastInput)
	}
}

func TestCartSetItemRejectsMissingVariant(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: &cartsvc.View{}}
	handler := CartSetItem(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/cart", `{"quantity":3}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartApplyCouponPassesCode(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: &cartsvc.View{}}
	handler := CartApplyCoupon(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/coupon", `{"code":"SAVE20"}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastCoupon != "SAVE20" {
		t.Fatalf("expected code SAVE20, got %q", svc.lastCoupon)
	}
}

func TestCartErrorsMapToStatus(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "variant is out of stock")}
	handler := CartClear(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/cart", ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected error code %q", payload.Error.Code)
	}
	if payload.Error.Message != "variant is out of stock" {
		t.Fatalf("unexpected message %q", payload.Error.Message)
	}
}
