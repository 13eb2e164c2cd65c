package domain

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRelativePathFormats(t *testing.T) {
	date := time.Date(2024, 3, 5, 10, 22, 0, 0, time.UTC)

	tests := []struct {
		scheme FolderScheme
		want   string
	}{
		{SchemeYear, "2024"},
		{SchemeYearMonth, filepath.Join("2024", "03")},
		{SchemeYearMonthDay, filepath.Join("2024", "03", "05")},
		{SchemeHierarchical, filepath.Join("2024", "2024_03", "2024_03_05")},
	}

	for _, tt := range tests {
		got := tt.scheme.RelativePath(date)
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.scheme, got, tt.want)
		}
	}
}

func TestYearMonthDayComposesFromYear(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2031, 7, 9, 12, 0, 0, 0, time.UTC),
	}

	for _, d := range dates {
		want := filepath.Join(SchemeYear.RelativePath(d), d.Format("01"), d.Format("02"))
		got := SchemeYearMonthDay.RelativePath(d)
		if got != want {
			t.Errorf("date %v: got %q, want %q", d, got, want)
		}
	}
}

func TestRelativePathNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*60*60)
	// 2024-01-01 05:00 +13 is still 2023-12-31 in UTC.
	date := time.Date(2024, 1, 1, 5, 0, 0, 0, loc)

	if got := SchemeYear.RelativePath(date); got != "2023" {
		t.Errorf("got %q, want 2023", got)
	}
}

func TestParseSchemeRoundTrip(t *testing.T) {
	for _, scheme := range []FolderScheme{SchemeYear, SchemeYearMonth, SchemeYearMonthDay, SchemeHierarchical} {
		parsed, err := ParseScheme(scheme.String())
		if err != nil {
			t.Fatalf("parse %q: %v", scheme.String(), err)
		}
		if parsed != scheme {
			t.Errorf("round trip %q: got %v", scheme.String(), parsed)
		}
	}

	if _, err := ParseScheme("weekly"); err == nil {
		t.Error("expected error for unknown scheme")
	}
}
