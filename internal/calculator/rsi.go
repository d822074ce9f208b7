package calculator

import "errors"

// CalculateRSI computes the Wilder-smoothed RSI over the given period and
// returns the value for the most recent bar. Returns ErrInsufficientHistory
// when fewer than `period` prices are supplied. A series with zero total loss
// saturates at 100.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period {
		return 0, ErrInsufficientHistory
	}

	// Seed: average gain/loss over the first `period` price changes. When the
	// window is exactly `period` long only period-1 changes exist; the divisor
	// stays `period`, which treats the missing change as zero.
	var avgGain, avgLoss float64
	for i := 1; i <= period && i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder recursive smoothing across the remaining bars.
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
