package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/service"
	"github.com/weblease/weblease-backend/internal/testutil"
)

func TestGetStats_Success(t *testing.T) {
	e := echo.New()
	rentalRepo := testutil.NewMockRentalRepository()
	handler := NewStatsHandler(service.NewStatsService(rentalRepo))

	seedRental(rentalRepo, uuid.New(), domain.StatusActive, "1000")
	seedRental(rentalRepo, uuid.New(), domain.StatusPending, "500")
	cancelled := seedRental(rentalRepo, uuid.New(), domain.StatusCancelled, "500")
	cancelled.TotalPaid = decimal.RequireFromString("300")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetStats(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response domain.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Total != 3 {
		t.Errorf("Expected total 3, got %d", response.Total)
	}
	if response.Active != 1 {
		t.Errorf("Expected 1 active, got %d", response.Active)
	}
	if !response.TotalRevenue.Equal(decimal.RequireFromString("300")) {
		t.Errorf("Expected revenue 300 including the cancelled rental, got %s", response.TotalRevenue)
	}
}

func TestSweep_TransitionsLapsedRentals(t *testing.T) {
	e := echo.New()
	rentalRepo := testutil.NewMockRentalRepository()
	handler := NewSweepHandler(service.NewSweepService(rentalRepo))

	lapsedEnd := time.Now().AddDate(0, 0, -3)
	lapsed := seedRental(rentalRepo, uuid.New(), domain.StatusActive, "1000")
	lapsed.EndDate = &lapsedEnd

	currentEnd := time.Now().AddDate(0, 1, 0)
	current := seedRental(rentalRepo, uuid.New(), domain.StatusActive, "1000")
	current.EndDate = &currentEnd

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sweep", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Sweep(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response SweepResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Transitioned != 1 {
		t.Errorf("Expected 1 rental transitioned, got %d", response.Transitioned)
	}

	stored, _ := rentalRepo.GetByID(lapsed.ID)
	if stored.Status != domain.StatusPaymentDue {
		t.Errorf("Expected lapsed rental in payment_due, got %s", stored.Status)
	}
	stored, _ = rentalRepo.GetByID(current.ID)
	if stored.Status != domain.StatusActive {
		t.Errorf("Expected current rental untouched, got %s", stored.Status)
	}
}
