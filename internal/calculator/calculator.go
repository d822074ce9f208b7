// Package calculator provides pure indicator computations over close-price
// series. Functions return only the most recent value and never touch I/O.
package calculator

import "errors"

// ErrInsufficientHistory is returned when a price window is shorter than the
// indicator's configured period.
var ErrInsufficientHistory = errors.New("not enough bars for calculation")

// CalculateSMA computes the simple moving average of the trailing `period` prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrInsufficientHistory
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}
