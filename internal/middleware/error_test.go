package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func decodeErrorEnvelope(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("error body is not valid JSON: %v", err)
	}
	return response
}

func TestErrorEnvelopeForStorefrontFailures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		message string
	}{
		{name: "product missing", status: http.StatusNotFound, message: "product not found"},
		{name: "duplicate membership request", status: http.StatusConflict, message: "membership already requested"},
		{name: "bad quantity", status: http.StatusBadRequest, message: "quantity must be at least 1"},
		{name: "regressing order status", status: http.StatusUnprocessableEntity, message: "order status cannot move backwards"},
		{name: "throttled", status: http.StatusTooManyRequests, message: "rate limit exceeded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondWithError(w, tc.status, tc.message)

			if w.Code != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %q", ct)
			}

			response := decodeErrorEnvelope(t, w)
			if response.Error.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, response.Error.Message)
			}
			if response.Error.Code == "" {
				t.Error("error envelope missing code")
			}
			if _, err := time.Parse(time.RFC3339, response.Error.Timestamp); err != nil {
				t.Errorf("timestamp %q is not RFC3339: %v", response.Error.Timestamp, err)
			}
		})
	}
}

func TestErrorDetailsSurviveTheEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithErrorDetails(w, http.StatusUnprocessableEntity, "product failed validation", map[string]interface{}{
		"boz_plus_price": "must not exceed the effective price",
	})

	response := decodeErrorEnvelope(t, w)
	if response.Error.Details == nil {
		t.Fatal("details dropped from envelope")
	}
	if got := response.Error.Details["boz_plus_price"]; got != "must not exceed the effective price" {
		t.Errorf("unexpected detail value: %v", got)
	}
}

func TestValidationErrorsUseBadRequestEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithValidationErrors(w, []ValidationError{
		{Field: "price", Message: "Must be a positive amount"},
		{Field: "stock_status", Message: "Must be one of: in_stock out_of_stock"},
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	response := decodeErrorEnvelope(t, w)
	raw, ok := response.Error.Details["validation_errors"]
	if !ok {
		t.Fatal("validation_errors missing from details")
	}
	list, ok := raw.([]interface{})
	if !ok || len(list) != 2 {
		t.Fatalf("expected 2 validation errors, got %v", raw)
	}
}

func TestProperty_JSONResponsesRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("RespondWithJSON preserves payload and status", prop.ForAll(
		func(pick int, payload map[string]string) bool {
			statuses := []int{
				http.StatusOK,
				http.StatusCreated,
				http.StatusNotFound,
				http.StatusConflict,
				http.StatusInternalServerError,
			}
			if pick < 0 {
				pick = -pick
			}
			status := statuses[pick%len(statuses)]

			w := httptest.NewRecorder()
			RespondWithJSON(w, status, payload)

			if w.Code != status {
				t.Logf("FAIL: expected status %d, got %d", status, w.Code)
				return false
			}

			var decoded map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
				t.Logf("FAIL: body is not JSON: %v", err)
				return false
			}
			for k, v := range payload {
				if decoded[k] != v {
					t.Logf("FAIL: key %q: sent %q, got %q", k, v, decoded[k])
					return false
				}
			}
			return true
		},
		gen.Int(),
		gen.MapOf(gen.AlphaString(), gen.AlphaString()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
