package calculator

import (
	"math"

	"KlineWatch/internal/model"
)

// CalculateBollingerBands computes the latest Bollinger Bands triple: middle is
// the simple moving average of the trailing `period` closes, the half-width is
// stdDev multiples of the population standard deviation of the same window.
// Returns ErrInsufficientHistory when fewer than `period` prices are supplied.
func CalculateBollingerBands(closes []float64, period int, stdDev float64) (model.Bands, error) {
	mean, err := CalculateSMA(closes, period)
	if err != nil {
		return model.Bands{}, err
	}

	window := closes[len(closes)-period:]
	variance := 0.0
	for _, p := range window {
		d := p - mean
		variance += d * d
	}
	variance /= float64(period)

	half := stdDev * math.Sqrt(variance)
	return model.Bands{
		Lower:  mean - half,
		Middle: mean,
		Upper:  mean + half,
	}, nil
}
