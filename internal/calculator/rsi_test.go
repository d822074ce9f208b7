package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestCalculateRSI_InsufficientHistory(t *testing.T) {
	closes := make([]float64, 10)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	if _, err := CalculateRSI(closes, 20); !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestCalculateRSI_InvalidPeriod(t *testing.T) {
	if _, err := CalculateRSI([]float64{1, 2, 3}, 0); err == nil {
		t.Fatal("expected error for period 0")
	}
}

func TestCalculateRSI_ConstantSeries(t *testing.T) {
	// Zero loss across the whole series: RSI saturates at 100.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50
	}
	v, err := CalculateRSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 100.0 {
		t.Errorf("constant series: expected 100, got %v", v)
	}
}

func TestCalculateRSI_MonotonicSeries(t *testing.T) {
	up := make([]float64, 20)
	down := make([]float64, 20)
	for i := range up {
		up[i] = float64(i + 1)
		down[i] = float64(40 - i)
	}

	v, err := CalculateRSI(up, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 100.0 {
		t.Errorf("all-gain series: expected 100, got %v", v)
	}

	v, err = CalculateRSI(down, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0.0 {
		t.Errorf("all-loss series: expected 0, got %v", v)
	}
}

func TestCalculateRSI_KnownValue(t *testing.T) {
	// period 3, changes +1,+1,+1 then -1:
	// seed avgGain=1, avgLoss=0; smoothed avgGain=2/3, avgLoss=1/3 → RS=2 → RSI=200/3.
	closes := []float64{1, 2, 3, 4, 3}
	v, err := CalculateRSI(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 200.0 / 3.0
	if math.Abs(v-want) > 1e-9 {
		t.Errorf("expected %.10f, got %.10f", want, v)
	}
}

func TestCalculateRSI_Deterministic(t *testing.T) {
	closes := []float64{10, 11, 10.5, 12, 11.8, 13, 12.4, 12.9, 14, 13.5, 13.8, 15, 14.2, 14.9, 16, 15.5}
	a, err := CalculateRSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := CalculateRSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("identical inputs produced different values: %v vs %v", a, b)
	}
	if math.IsNaN(a) || math.IsInf(a, 0) {
		t.Errorf("expected finite value, got %v", a)
	}
	if a <= 0 || a >= 100 {
		t.Errorf("mixed series should land strictly inside (0, 100), got %v", a)
	}
}
