package validator

import "testing"

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2023-06-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "06/01/2023", "2023-13-01", "tomorrow"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestValidateCityCode(t *testing.T) {
	got, err := ValidateCityCode(" par ")
	if err != nil || got != "PAR" {
		t.Fatalf("expected PAR, got %q err %v", got, err)
	}
	for _, bad := range []string{"", "PA", "PARIS", "P4R"} {
		if _, err := ValidateCityCode(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
