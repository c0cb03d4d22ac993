package purchaseorders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	internalpos "github.com/angelmondragon/vendorscore-backend/internal/purchaseorders"
	"github.com/angelmondragon/vendorscore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorscore-backend/pkg/errors"
	"github.com/angelmondragon/vendorscore-backend/pkg/types"
)

type stubService struct {
	internalpos.Service
	create   func(ctx context.Context, in internalpos.CreateInput) (*internalpos.PurchaseOrder, error)
	ack      func(ctx context.Context, id int64) (*internalpos.PurchaseOrder, error)
	complete func(ctx context.Context, id int64, rating *float64) (*internalpos.PurchaseOrder, error)
	cancel   func(ctx context.Context, id int64) (*internalpos.PurchaseOrder, error)
	update   func(ctx context.Context, id int64, in internalpos.UpdateInput) (*internalpos.PurchaseOrder, error)
	del      func(ctx context.Context, id int64) error
}

func (s *stubService) Create(ctx context.Context, in internalpos.CreateInput) (*internalpos.PurchaseOrder, error) {
	return s.create(ctx, in)
}

func (s *stubService) Acknowledge(ctx context.Context, id int64) (*internalpos.PurchaseOrder, error) {
	return s.ack(ctx, id)
}

func (s *stubService) Complete(ctx context.Context, id int64, rating *float64) (*internalpos.PurchaseOrder, error) {
	return s.complete(ctx, id, rating)
}

func (s *stubService) Cancel(ctx context.Context, id int64) (*internalpos.PurchaseOrder, error) {
	return s.cancel(ctx, id)
}

func (s *stubService) Update(ctx context.Context, id int64, in internalpos.UpdateInput) (*internalpos.PurchaseOrder, error) {
	return s.update(ctx, id, in)
}

func (s *stubService) Delete(ctx context.Context, id int64) error {
	return s.del(ctx, id)
}

func newRouter(svc internalpos.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/purchase_orders", Create(svc, nil))
	r.Put("/purchase_orders/{poID}", Update(svc, nil))
	r.Delete("/purchase_orders/{poID}", Delete(svc, nil))
	r.Post("/purchase_orders/{poID}/acknowledge", Acknowledge(svc, nil))
	r.Post("/purchase_orders/{poID}/complete", Complete(svc, nil))
	r.Post("/purchase_orders/{poID}/cancel", Cancel(svc, nil))
	return r
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var body types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestCreateReturnsMessageEnvelope(t *testing.T) {
	var captured internalpos.CreateInput
	svc := &stubService{create: func(ctx context.Context, in internalpos.CreateInput) (*internalpos.PurchaseOrder, error) {
		captured = in
		return &internalpos.PurchaseOrder{ID: 1, PONumber: "PO-001", Vendor: in.Vendor, Status: enums.PurchaseOrderStatusPending}, nil
	}}

	body := `{"vendor":3,"order_date":"2026-03-01T00:00:00Z","delivery_date":"2026-03-08T00:00:00Z","items":[{"sku":"A"}],"quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/purchase_orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Message string                    `json:"message"`
		Data    internalpos.PurchaseOrder `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if out.Message != "Created Successfully!" {
		t.Fatalf("unexpected message %q", out.Message)
	}
	if out.Data.PONumber != "PO-001" {
		t.Fatalf("unexpected po number %q", out.Data.PONumber)
	}
	if captured.Vendor != 3 || captured.Quantity != 2 {
		t.Fatalf("unexpected input %+v", captured)
	}
	if captured.Status != "" {
		t.Fatalf("expected default status left to the service, got %q", captured.Status)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := &stubService{}
	req := httptest.NewRequest(http.MethodPost, "/purchase_orders", strings.NewReader(`{"vendor":3}`))
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	apiErr := decodeError(t, resp)
	details, _ := apiErr.Details.(map[string]any)
	for _, field := range []string{"order_date", "delivery_date", "items", "quantity"} {
		if _, ok := details[field]; !ok {
			t.Fatalf("expected %s in details, got %v", field, apiErr.Details)
		}
	}
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	svc := &stubService{}
	body := `{"vendor":3,"order_date":"2026-03-01T00:00:00Z","delivery_date":"2026-03-08T00:00:00Z","items":[],"quantity":2,"status":"shipped"}`
	req := httptest.NewRequest(http.MethodPost, "/purchase_orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAcknowledgeNotFoundIs404(t *testing.T) {
	svc := &stubService{ack: func(ctx context.Context, id int64) (*internalpos.PurchaseOrder, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, internalpos.MsgOrderNotFound)
	}}
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/purchase_orders/9/acknowledge", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAcknowledgeConflictIs400(t *testing.T) {
	svc := &stubService{ack: func(ctx context.Context, id int64) (*internalpos.PurchaseOrder, error) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, internalpos.MsgAlreadyAcknowledged)
	}}
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/purchase_orders/9/acknowledge", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if msg := decodeError(t, resp).Message; msg != internalpos.MsgAlreadyAcknowledged {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestCompletePassesRatingAndMapsNotFoundTo400(t *testing.T) {
	var rating *float64
	svc := &stubService{complete: func(ctx context.Context, id int64, r *float64) (*internalpos.PurchaseOrder, error) {
		rating = r
		if id == 404 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, internalpos.MsgOrderNotFound)
		}
		return &internalpos.PurchaseOrder{ID: id, Status: enums.PurchaseOrderStatusCompleted, QualityRating: r}, nil
	}}
	router := newRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/purchase_orders/5/complete", strings.NewReader(`{"quality_rating":4.5}`)))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if rating == nil || *rating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", rating)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/purchase_orders/5/complete", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty body got %d", resp.Code)
	}
	if rating != nil {
		t.Fatalf("expected no rating, got %v", *rating)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/purchase_orders/404/complete", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateDistinguishesNullRatingFromAbsent(t *testing.T) {
	var captured internalpos.UpdateInput
	svc := &stubService{update: func(ctx context.Context, id int64, in internalpos.UpdateInput) (*internalpos.PurchaseOrder, error) {
		captured = in
		return &internalpos.PurchaseOrder{ID: id}, nil
	}}
	router := newRouter(svc)

	cases := []struct {
		name      string
		body      string
		wantClear bool
		wantValue *float64
	}{
		{name: "absent", body: `{"quantity":2}`},
		{name: "null", body: `{"quality_rating":null}`, wantClear: true},
		{name: "value", body: `{"quality_rating":3.5}`, wantValue: func() *float64 { v := 3.5; return &v }()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			captured = internalpos.UpdateInput{}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/purchase_orders/5", strings.NewReader(tc.body)))
			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
			}
			if captured.ClearQualityRating != tc.wantClear {
				t.Fatalf("expected clear=%v got %v", tc.wantClear, captured.ClearQualityRating)
			}
			switch {
			case tc.wantValue == nil && captured.QualityRating != nil:
				t.Fatalf("expected no rating, got %v", *captured.QualityRating)
			case tc.wantValue != nil && (captured.QualityRating == nil || *captured.QualityRating != *tc.wantValue):
				t.Fatalf("expected rating %v, got %v", *tc.wantValue, captured.QualityRating)
			}
		})
	}
}

func TestUpdateRejectsNonNumericRating(t *testing.T) {
	svc := &stubService{update: func(ctx context.Context, id int64, in internalpos.UpdateInput) (*internalpos.PurchaseOrder, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/purchase_orders/5", strings.NewReader(`{"quality_rating":"high"}`)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCancelNotFoundIs400(t *testing.T) {
	svc := &stubService{cancel: func(ctx context.Context, id int64) (*internalpos.PurchaseOrder, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, internalpos.MsgOrderNotFound)
	}}
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/purchase_orders/1/cancel", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := decodeError(t, resp).Code; code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestDeleteReturnsNoContent(t *testing.T) {
	var deleted int64
	svc := &stubService{del: func(ctx context.Context, id int64) error {
		deleted = id
		return nil
	}}
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/purchase_orders/12", nil))

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if deleted != 12 {
		t.Fatalf("expected id 12, got %d", deleted)
	}
}

func TestInvalidIDIs400(t *testing.T) {
	resp := httptest.NewRecorder()
	newRouter(&stubService{}).ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/purchase_orders/abc", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
