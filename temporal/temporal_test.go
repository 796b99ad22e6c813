package temporal

import (
	"testing"
	"time"
)

func TestParsePrecisions(t *testing.T) {
	tests := []struct {
		input     string
		precision Precision
	}{
		{"2022-01-12T14:30:00Z", PrecisionInstant},
		{"2022-01-12T14:30:00.123+01:00", PrecisionInstant},
		{"2022-01-12T14:30:00", PrecisionDateTime},
		{"2022-01-12", PrecisionDate},
		{"2022-01", PrecisionYearMonth},
		{"2022", PrecisionYear},
		{"14:30:00", PrecisionTime},
	}

	for _, tt := range tests {
		v, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.input, err)
			continue
		}
		if v.Precision != tt.precision {
			t.Errorf("Parse(%q) precision = %v, want %v", tt.input, v.Precision, tt.precision)
		}
		if v.Raw != tt.input {
			t.Errorf("Parse(%q) raw = %q, want input preserved", tt.input, v.Raw)
		}
	}
}

func TestParseInstantValue(t *testing.T) {
	v, err := Parse("2022-01-12T14:30:00+01:00")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := time.Date(2022, 1, 12, 13, 30, 0, 0, time.UTC)
	if !v.Time.Equal(want) {
		t.Errorf("parsed time = %v, want %v", v.Time, want)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "not-a-date", "2022-13-40", "12.01.2022"} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}

func TestParseDate(t *testing.T) {
	v, err := ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if v.Precision != PrecisionDate {
		t.Errorf("precision = %v, want Date", v.Precision)
	}
	if _, err := ParseDate("2024-06"); err == nil {
		t.Error("ParseDate accepted a year-month value")
	}
}

func TestParseInstantRejectsLocal(t *testing.T) {
	if _, err := ParseInstant("2022-01-12T14:30:00"); err == nil {
		t.Error("ParseInstant accepted a timestamp without zone offset")
	}
}

func TestZeroValue(t *testing.T) {
	var v Value
	if !v.IsZero() {
		t.Error("zero Value must report IsZero")
	}
	if v.String() != "" {
		t.Errorf("zero Value String() = %q, want empty", v.String())
	}
}
