package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusCodeFor(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)

	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ValidationError("bad method"), http.StatusBadRequest},
		{ConfigRequired("x"), http.StatusBadRequest},
		{Unauthorized("nope"), http.StatusForbidden},
		{New(CategoryNetwork, SeverityError, "x"), http.StatusBadGateway},
		{New(CategoryForge, SeverityError, "x"), http.StatusBadGateway},
		{New(CategoryGeneration, SeverityError, "x"), http.StatusUnprocessableEntity},
		{New(CategoryPublish, SeverityError, "x"), http.StatusUnprocessableEntity},
		{New(CategoryRuntime, SeverityWarning, "x"), http.StatusServiceUnavailable},
		{New(CategoryInternal, SeverityError, "x"), http.StatusInternalServerError},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := a.StatusCodeFor(c.err); got != c.want {
			t.Errorf("StatusCodeFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

// The unauthorized payload is exactly {"error":"Unauthorized"}; no detail may
// leak about why authorization failed.
func TestWriteErrorResponseUnauthorized(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	rr := httptest.NewRecorder()

	a.WriteErrorResponse(rr, Unauthorized("secret mismatch for task demo-1"))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	if body := rr.Body.String(); body != `{"error":"Unauthorized"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestWriteErrorResponseDetails(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	rr := httptest.NewRecorder()

	a.WriteErrorResponse(rr, ValidationError("invalid HTTP method").WithContext("method", "GET"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var resp HTTPErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Error != "invalid HTTP method" {
		t.Fatalf("unexpected error message: %s", resp.Error)
	}
	if resp.Code != "validation" {
		t.Fatalf("unexpected code: %s", resp.Code)
	}
	if resp.Details["method"] != "GET" {
		t.Fatalf("unexpected details: %v", resp.Details)
	}
}
