package validators

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

type sample struct {
	ID   uint   `validate:"required,gt=0"`
	Name string `validate:"max=5"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&sample{ID: 1, Name: "ok"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	err := v.Validate(&sample{Name: "too long"})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
