package handlers

import (
	"testing"
	"time"
)

func TestParseReservationDateAcceptsRFC3339(t *testing.T) {
	date, err := parseReservationDate("2026-09-15T19:30:00Z")
	if err != nil {
		t.Fatalf("parseReservationDate returned error: %v", err)
	}
	if date.Year() != 2026 || date.Month() != time.September || date.Day() != 15 {
		t.Fatalf("unexpected date: %v", date)
	}
}

func TestParseReservationDateAcceptsDateOnly(t *testing.T) {
	date, err := parseReservationDate(" 2026-09-15 ")
	if err != nil {
		t.Fatalf("parseReservationDate returned error: %v", err)
	}
	if date.Hour() != 0 || date.Day() != 15 {
		t.Fatalf("unexpected date: %v", date)
	}
}

func TestParseReservationDateRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "tomorrow", "15/09/2026"} {
		if _, err := parseReservationDate(value); err == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}

func TestCoerceGuestsNumber(t *testing.T) {
	guests, err := coerceGuests(float64(4))
	if err != nil {
		t.Fatalf("coerceGuests returned error: %v", err)
	}
	if guests != 4 {
		t.Fatalf("expected 4 guests, got %d", guests)
	}
}

func TestCoerceGuestsNumericString(t *testing.T) {
	guests, err := coerceGuests(" 2 ")
	if err != nil {
		t.Fatalf("coerceGuests returned error: %v", err)
	}
	if guests != 2 {
		t.Fatalf("expected 2 guests, got %d", guests)
	}
}

func TestCoerceGuestsRejectsInvalid(t *testing.T) {
	invalid := []interface{}{float64(0), float64(-1), float64(2.5), "zero", "", true, nil}
	for _, value := range invalid {
		if _, err := coerceGuests(value); err == nil {
			t.Fatalf("expected %v (%T) to be rejected", value, value)
		}
	}
}
