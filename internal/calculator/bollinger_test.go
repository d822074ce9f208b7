package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestCalculateBollingerBands_InsufficientHistory(t *testing.T) {
	if _, err := CalculateBollingerBands([]float64{1, 2, 3}, 4, 2); !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestCalculateBollingerBands_ConstantSeries(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 50
	}
	b, err := CalculateBollingerBands(closes, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Lower != 50 || b.Middle != 50 || b.Upper != 50 {
		t.Errorf("constant series should collapse to a zero-width band, got %+v", b)
	}
	if b.Width() != 0 {
		t.Errorf("expected zero width, got %v", b.Width())
	}
}

func TestCalculateBollingerBands_KnownValues(t *testing.T) {
	// mean 2.5, population variance 1.25
	closes := []float64{1, 2, 3, 4}
	b, err := CalculateBollingerBands(closes, 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	half := 2 * math.Sqrt(1.25)
	if math.Abs(b.Middle-2.5) > 1e-9 {
		t.Errorf("middle: expected 2.5, got %v", b.Middle)
	}
	if math.Abs(b.Upper-(2.5+half)) > 1e-9 {
		t.Errorf("upper: expected %v, got %v", 2.5+half, b.Upper)
	}
	if math.Abs(b.Lower-(2.5-half)) > 1e-9 {
		t.Errorf("lower: expected %v, got %v", 2.5-half, b.Lower)
	}
}

func TestCalculateBollingerBands_TrailingWindowOnly(t *testing.T) {
	// Values before the trailing window must not affect the result.
	short := []float64{1, 2, 3, 4}
	long := append([]float64{900, 5, 700}, short...)
	a, err := CalculateBollingerBands(short, 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := CalculateBollingerBands(long, 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("leading values leaked into the window: %+v vs %+v", a, b)
	}
}

func TestCalculateBollingerBands_Ordering(t *testing.T) {
	series := [][]float64{
		{1, 2, 3, 4, 5},
		{5, 4, 3, 2, 1},
		{10, 10.5, 9.8, 11, 10.2},
		{-3, -1, -2, -5, -4},
	}
	for _, closes := range series {
		for _, k := range []float64{0, 0.5, 1, 2, 3} {
			b, err := CalculateBollingerBands(closes, len(closes), k)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !(b.Lower <= b.Middle && b.Middle <= b.Upper) {
				t.Errorf("k=%v closes=%v: expected lower <= middle <= upper, got %+v", k, closes, b)
			}
		}
	}
}
