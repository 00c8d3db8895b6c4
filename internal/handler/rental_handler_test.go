package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/service"
	"github.com/weblease/weblease-backend/internal/testutil"
)

func newRentalTestStack() (*RentalHandler, *testutil.MockRentalRepository, *testutil.MockSiteRepository, *testutil.MockClientRepository) {
	rentalRepo := testutil.NewMockRentalRepository()
	siteRepo := testutil.NewMockSiteRepository()
	clientRepo := testutil.NewMockClientRepository()
	svc := service.NewRentalService(rentalRepo, siteRepo, clientRepo)
	return NewRentalHandler(svc), rentalRepo, siteRepo, clientRepo
}

func seedSite(siteRepo *testutil.MockSiteRepository, name, price string) *domain.Site {
	site := &domain.Site{
		ID:           uuid.New(),
		Name:         name,
		Slug:         strings.ToLower(name),
		MonthlyPrice: decimal.RequireFromString(price),
		Active:       true,
	}
	siteRepo.AddSite(site)
	return site
}

func seedRental(rentalRepo *testutil.MockRentalRepository, siteID uuid.UUID, status domain.RentalStatus, price string) *domain.Rental {
	rental := &domain.Rental{
		ID:           uuid.New(),
		SiteID:       siteID,
		ContactName:  "Amina K",
		ContactEmail: "amina@example.com",
		ContactPhone: "+212600000000",
		MonthlyPrice: decimal.RequireFromString(price),
		Status:       status,
		TotalPaid:    decimal.Zero,
		Version:      1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	rentalRepo.AddRental(rental)
	return rental
}

func TestCreateRental_Success(t *testing.T) {
	e := echo.New()
	handler, _, siteRepo, _ := newRentalTestStack()
	site := seedSite(siteRepo, "Bakery", "1000")

	reqBody := `{
		"siteId": "` + site.ID.String() + `",
		"contactName": "Amina K",
		"contactEmail": "amina@example.com",
		"contactPhone": "+212600000000"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateRental(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var response domain.Rental
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Status != domain.StatusPending {
		t.Errorf("Expected status pending, got %s", response.Status)
	}
	if !response.MonthlyPrice.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("Expected monthly price defaulted from site, got %s", response.MonthlyPrice)
	}
}

func TestCreateRental_UnknownSite(t *testing.T) {
	e := echo.New()
	handler, _, _, _ := newRentalTestStack()

	reqBody := `{
		"siteId": "` + uuid.NewString() + `",
		"contactName": "Amina K",
		"contactEmail": "amina@example.com"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateRental(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateRental_MissingContactName(t *testing.T) {
	e := echo.New()
	handler, _, siteRepo, _ := newRentalTestStack()
	site := seedSite(siteRepo, "Bakery", "1000")

	reqBody := `{
		"siteId": "` + site.ID.String() + `",
		"contactEmail": "amina@example.com"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateRental(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem response: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation problem type, got %s", problem.Type)
	}
}

func TestGetRental_Success(t *testing.T) {
	e := echo.New()
	handler, rentalRepo, siteRepo, _ := newRentalTestStack()
	site := seedSite(siteRepo, "Bakery", "1000")
	rental := seedRental(rentalRepo, site.ID, domain.StatusActive, "1000")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rentals/"+rental.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rental.ID.String())

	if err := handler.GetRental(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response service.RentalView
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Site == nil || response.Site.Name != "Bakery" {
		t.Errorf("Expected site summary with name Bakery, got %+v", response.Site)
	}
}

func TestGetRental_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, _, _ := newRentalTestStack()

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rentals/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := handler.GetRental(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestUpdateStatus_Success(t *testing.T) {
	e := echo.New()
	handler, rentalRepo, siteRepo, _ := newRentalTestStack()
	site := seedSite(siteRepo, "Bakery", "1000")
	rental := seedRental(rentalRepo, site.ID, domain.StatusPending, "1000")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/rentals/"+rental.ID.String()+"/status", strings.NewReader(`{"status":"cancelled"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rental.ID.String())

	if err := handler.UpdateStatus(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response domain.Rental
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Status != domain.StatusCancelled {
		t.Errorf("Expected status cancelled, got %s", response.Status)
	}
}

func TestUpdateStatus_CancelledIsTerminal(t *testing.T) {
	e := echo.New()
	handler, rentalRepo, siteRepo, _ := newRentalTestStack()
	site := seedSite(siteRepo, "Bakery", "1000")
	rental := seedRental(rentalRepo, site.ID, domain.StatusCancelled, "1000")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/rentals/"+rental.ID.String()+"/status", strings.NewReader(`{"status":"active"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rental.ID.String())

	if err := handler.UpdateStatus(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUpdateDates_Success(t *testing.T) {
	e := echo.New()
	handler, rentalRepo, siteRepo, _ := newRentalTestStack()
	site := seedSite(siteRepo, "Bakery", "1000")
	rental := seedRental(rentalRepo, site.ID, domain.StatusActive, "1000")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/rentals/"+rental.ID.String()+"/dates", strings.NewReader(`{"startDate":"2025-06-01","endDate":"2025-09-01"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rental.ID.String())

	if err := handler.UpdateDates(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response domain.Rental
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.EndDate == nil || response.EndDate.Format("2006-01-02") != "2025-09-01" {
		t.Errorf("Expected end date 2025-09-01, got %v", response.EndDate)
	}
}

func TestUpdateDates_BadFormat(t *testing.T) {
	e := echo.New()
	handler, rentalRepo, siteRepo, _ := newRentalTestStack()
	site := seedSite(siteRepo, "Bakery", "1000")
	rental := seedRental(rentalRepo, site.ID, domain.StatusActive, "1000")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/rentals/"+rental.ID.String()+"/dates", strings.NewReader(`{"endDate":"01/09/2025"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rental.ID.String())

	if err := handler.UpdateDates(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteRental_Success(t *testing.T) {
	e := echo.New()
	handler, rentalRepo, siteRepo, _ := newRentalTestStack()
	site := seedSite(siteRepo, "Bakery", "1000")
	rental := seedRental(rentalRepo, site.ID, domain.StatusPending, "1000")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/rentals/"+rental.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rental.ID.String())

	if err := handler.DeleteRental(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}

	if _, err := rentalRepo.GetByID(rental.ID); err == nil {
		t.Error("Expected rental to be gone after delete")
	}
}

func TestGetClientRentals_UnknownClient(t *testing.T) {
	e := echo.New()
	handler, _, _, _ := newRentalTestStack()

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+id+"/rentals", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := handler.GetClientRentals(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetClientRentals_Success(t *testing.T) {
	e := echo.New()
	handler, rentalRepo, siteRepo, clientRepo := newRentalTestStack()
	site := seedSite(siteRepo, "Bakery", "1000")

	client := &domain.Client{ID: uuid.New(), Name: "Amina K", Email: "amina@example.com"}
	clientRepo.AddClient(client)

	rental := seedRental(rentalRepo, site.ID, domain.StatusActive, "1000")
	rental.ClientID = &client.ID

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+client.ID.String()+"/rentals", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(client.ID.String())

	if err := handler.GetClientRentals(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response []*service.RentalView
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 rental, got %d", len(response))
	}
	if response[0].Site == nil || response[0].Site.Name != "Bakery" {
		t.Errorf("Expected site summary with name Bakery, got %+v", response[0].Site)
	}
}
