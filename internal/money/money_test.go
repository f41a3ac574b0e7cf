package money

import (
	"errors"
	"math"
	"testing"
)

func TestFromDecimal(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		want    int64
		wantErr bool
	}{
		{name: "whole amount", value: 123, want: 12300},
		{name: "two decimal places", value: 12.34, want: 1234},
		{name: "single decimal place", value: 0.1, want: 10},
		{name: "negative amount", value: -123.45, want: -12345},
		{name: "zero", value: 0, want: 0},
		{name: "nan rejected", value: math.NaN(), wantErr: true},
		{name: "too large rejected", value: 1e17, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromDecimal(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("error = %v, want ErrInvalidAmount", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromDecimal(%v) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("FromDecimal(%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{12345, "123.45"},
		{-12345, "-123.45"},
		{-1, "-0.01"},
	}

	for _, tt := range tests {
		if got := Format(tt.minor); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.minor, got, tt.want)
		}
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		a, b int64
		want bool
	}{
		{100, 100, true},
		{100, 101, true},
		{101, 100, true},
		{100, 102, false},
		{-100, -101, true},
		{-100, 100, false},
	}

	for _, tt := range tests {
		if got := WithinTolerance(tt.a, tt.b); got != tt.want {
			t.Errorf("WithinTolerance(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
