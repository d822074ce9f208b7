package engine

import (
	"fmt"
	"math"

	"KlineWatch/internal/model"
)

// gaugeWidth is the number of slots in the band position gauge.
const gaugeWidth = 15

// zeroBandWidthText replaces the gauge when the band has no width; no breakout
// comparison is meaningful for that pass.
const zeroBandWidthText = "[zero band width]"

// bandGauge renders where the price sits between the lower and upper band as a
// linear text gauge, 0% at the lower bound and 100% at the upper. The marker is
// clamped to the gauge's extremes when the price is outside the band; the
// numeric percentage is not clamped.
func bandGauge(price float64, b model.Bands) string {
	width := b.Width()
	if width == 0 {
		return zeroBandWidthText
	}

	position := (price - b.Lower) / width
	percentage := position * 100

	idx := int(math.Round(position * float64(gaugeWidth-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= gaugeWidth {
		idx = gaugeWidth - 1
	}

	slots := make([]byte, gaugeWidth)
	for i := range slots {
		slots[i] = ' '
	}
	slots[idx] = '*'

	return fmt.Sprintf("low [%s] high (%.1f%%)", string(slots), percentage)
}
