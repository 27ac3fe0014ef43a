package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kperminova/gig-service/internal/models"
)

func TestIdentifyReturnsHeaderValue(t *testing.T) {
	provider := NewHeaderProvider()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Id", "owner")

	userID, err := provider.Identify(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "owner" {
		t.Errorf("expected owner, got %s", userID)
	}
}

func TestIdentifyFailsClosed(t *testing.T) {
	provider := NewHeaderProvider()

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := provider.Identify(req)
	if err == nil {
		t.Fatal("expected an error for anonymous request")
	}
	errorResponse, ok := err.(*models.ErrorResponse)
	if !ok {
		t.Fatalf("expected *models.ErrorResponse, got %T", err)
	}
	if errorResponse.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", errorResponse.StatusCode)
	}
}
