package handlers

import "testing"

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("parsePaginationParams returned error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Fatalf("expected defaults page=1 limit=20, got page=%d limit=%d", page, limit)
	}
}

func TestParsePaginationParamsExplicit(t *testing.T) {
	page, limit, err := parsePaginationParams("3", "50")
	if err != nil {
		t.Fatalf("parsePaginationParams returned error: %v", err)
	}
	if page != 3 || limit != 50 {
		t.Fatalf("expected page=3 limit=50, got page=%d limit=%d", page, limit)
	}
}

func TestParsePaginationParamsRejectsInvalid(t *testing.T) {
	cases := [][2]string{
		{"0", ""},
		{"-1", ""},
		{"abc", ""},
		{"", "0"},
		{"", "-5"},
		{"", "ten"},
	}
	for _, tc := range cases {
		if _, _, err := parsePaginationParams(tc[0], tc[1]); err == nil {
			t.Fatalf("expected page=%q limit=%q to be rejected", tc[0], tc[1])
		}
	}
}
