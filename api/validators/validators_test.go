package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/vendorscore-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
)

type contactRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	MobileNumber string  `json:"mobile_number" validate:"required,max=20,phone"`
	Email        *string `json:"email" validate:"omitempty,email"`
}

func TestDecodeJSONBodyValidatesPhone(t *testing.T) {
	cases := []struct {
		name  string
		phone string
		ok    bool
	}{
		{"plain digits", "5551234567", true},
		{"with prefix", "+15551234567", true},
		{"too short", "555-123-4567", false},
		{"letters", "call me", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"name":"Acme","mobile_number":"` + tc.phone + `"}`
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			var dest contactRequest
			err := DecodeJSONBody(req, &dest)
			if tc.ok && err != nil {
				t.Fatalf("expected valid phone, got %v", err)
			}
			if !tc.ok {
				typed := pkgerrors.As(err)
				if typed == nil || typed.Code() != pkgerrors.CodeValidation {
					t.Fatalf("expected validation error, got %v", err)
				}
				details, _ := typed.Details().(map[string]string)
				if _, ok := details["mobile_number"]; !ok {
					t.Fatalf("expected mobile_number detail, got %v", typed.Details())
				}
			}
		})
	}
}

func TestDecodeJSONBodyIgnoresUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":4,"name":"Acme","mobile_number":"5551234567"}`))
	var dest contactRequest
	if err := DecodeJSONBody(req, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Name != "Acme" {
		t.Fatalf("unexpected name %q", dest.Name)
	}
}

func TestDecodeJSONBodyRejectsEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var dest contactRequest
	if err := DecodeJSONBody(req, &dest); pkgerrors.As(err) == nil {
		t.Fatalf("expected typed validation error, got %v", err)
	}
}

func TestParseIDParam(t *testing.T) {
	withParam := func(v string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", v)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := ParseIDParam(withParam("12"), "id")
	if err != nil || id != 12 {
		t.Fatalf("expected 12, got %d (%v)", id, err)
	}
	for _, raw := range []string{"", "abc", "0", "-3"} {
		if _, err := ParseIDParam(withParam(raw), "id"); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def")
	if err != nil || token != "abc.def" {
		t.Fatalf("unexpected token %q (%v)", token, err)
	}
	if token, _ := BearerToken("abc.def"); token != "abc.def" {
		t.Fatalf("expected bare token accepted, got %q", token)
	}
	for _, raw := range []string{"", "Bearer ", "Bearer a b"} {
		if _, err := BearerToken(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestDecodeOptionalJSONBodyAcceptsEmpty(t *testing.T) {
	var dest struct {
		Rating *float64 `json:"quality_rating"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeOptionalJSONBody(req, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Rating != nil {
		t.Fatal("expected rating to stay nil")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quality_rating":4.5}`))
	if err := DecodeOptionalJSONBody(req, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Rating == nil || *dest.Rating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", dest.Rating)
	}
}
