package util

import (
	"testing"
	"time"
)

func TestDaysRemaining_NilEndDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	result := DaysRemaining(nil, now)

	if result != nil {
		t.Errorf("Expected nil for missing end date, got %d", *result)
	}
}

func TestDaysRemaining_FutureDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 17, 12, 0, 0, 0, time.UTC)

	result := DaysRemaining(&end, now)

	if result == nil || *result != 7 {
		t.Errorf("Expected 7 days, got %v", result)
	}
}

func TestDaysRemaining_PartialDayRoundsUp(t *testing.T) {
	// Expires later today: still 1 day left, not 0
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	result := DaysRemaining(&end, now)

	if result == nil || *result != 1 {
		t.Errorf("Expected 1 day, got %v", result)
	}
}

func TestDaysRemaining_Expired(t *testing.T) {
	// Negative values are meaningful ("expired N days ago") and must not be clamped
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

	result := DaysRemaining(&end, now)

	if result == nil || *result != -5 {
		t.Errorf("Expected -5 days, got %v", result)
	}
}

func TestAddMonths_Simple(t *testing.T) {
	start := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

	result := AddMonths(start, 2)

	expected := time.Date(2025, 5, 15, 10, 30, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestAddMonths_ClampsToLastDayOfFebruary(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	result := AddMonths(start, 1)

	expected := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestAddMonths_LeapYearFebruary(t *testing.T) {
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	result := AddMonths(start, 1)

	expected := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestAddMonths_CrossesYearBoundary(t *testing.T) {
	start := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)

	result := AddMonths(start, 3)

	expected := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestAddMonths_ManyMonthsNoDrift(t *testing.T) {
	// Twelve single-month renewals from Jan 15 land exactly one year later,
	// unlike a 30-day approximation which would drift
	current := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		current = AddMonths(current, 1)
	}

	expected := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if !current.Equal(expected) {
		t.Errorf("Expected %v after 12 renewals, got %v", expected, current)
	}
}
