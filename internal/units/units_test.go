package units

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		u     Units
		value float64
		kind  Kind
		want  string
	}{
		{"metric temperature", Metric, 12.54, Temperature, "12.5 °C"},
		{"imperial temperature", Imperial, 54.57, Temperature, "54.6 °F"},
		{"whole number", Metric, 3, Speed, "3 m/s"},
		{"imperial speed", Imperial, 7.25, Speed, "7.3 mph"},
		{"metric volume", Metric, 0.42, Volume, "0.4 mm"},
		{"imperial volume keeps hundredths", Imperial, 0.031, Volume, "0.03 in"},
		{"negative", Metric, -4.04, Temperature, "-4 °C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.u.Format(tt.value, tt.kind); got != tt.want {
				t.Fatalf("Format(%v, %v) = %q, want %q", tt.value, tt.kind, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Units{"metric": Metric, "Imperial": Imperial, " METRIC ": Metric} {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := Parse("kelvin"); err == nil {
		t.Fatalf("expected error for unknown unit system")
	}
}

func TestToggle(t *testing.T) {
	if Metric.Toggle() != Imperial || Imperial.Toggle() != Metric {
		t.Fatalf("toggle should swap the two systems")
	}
	if !Metric.Valid() || Units("kelvin").Valid() {
		t.Fatalf("Valid reports wrong result")
	}
}
