package util

import "testing"

func TestMinMax(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int
		wantMin  int
		wantMax  int
	}{
		{"a less than b", 3, 7, 3, 7},
		{"a greater than b", 9, 2, 2, 9},
		{"equal", 5, 5, 5, 5},
		{"negative values", -4, -1, -4, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Min(tt.a, tt.b); got != tt.wantMin {
				t.Errorf("Min(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.wantMin)
			}
			if got := Max(tt.a, tt.b); got != tt.wantMax {
				t.Errorf("Max(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.wantMax)
			}
		})
	}
}

func TestRoundDownUp(t *testing.T) {
	tests := []struct {
		name      string
		v, b      uint64
		wantDown  uint64
		wantUp    uint64
	}{
		{"already aligned", 4096, 4096, 4096, 4096},
		{"one below boundary", 4095, 4096, 0, 4096},
		{"one above boundary", 4097, 4096, 4096, 8192},
		{"zero", 0, 4096, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rounddown(tt.v, tt.b); got != tt.wantDown {
				t.Errorf("Rounddown(%d, %d) = %d, want %d", tt.v, tt.b, got, tt.wantDown)
			}
			if got := Roundup(tt.v, tt.b); got != tt.wantUp {
				t.Errorf("Roundup(%d, %d) = %d, want %d", tt.v, tt.b, got, tt.wantUp)
			}
		})
	}
}
