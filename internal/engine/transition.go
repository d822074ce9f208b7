package engine

import (
	"fmt"

	"KlineWatch/internal/model"
	"KlineWatch/internal/notifier"
)

// outcome is the result of one state-machine step for a single alert identity:
// at most one notification, an updated episode flag, and the status lines to
// report for this evaluation.
type outcome struct {
	lines        []string
	notification string
	active       bool
	changed      bool
}

// decideRSI applies the RSI transition rule. Alerts are edge-triggered: a
// threshold crossing notifies once and arms the episode flag; the flag is
// cleared only when the value comes back strictly inside (buy, sell). The
// overbought branch is evaluated first, so it wins if thresholds are
// misconfigured with buy >= sell.
func decideRSI(rule model.AlertRule, spec model.IndicatorSpec, key string, value, lastPrice float64, active bool) outcome {
	out := outcome{active: active}
	out.lines = append(out.lines, fmt.Sprintf("[indicator] %s: %.2f", spec.Label(), value))

	switch {
	case value >= spec.SellThreshold && !active:
		out.notification = notifier.FormatRSIOverbought(rule, spec, value, lastPrice)
		out.active = true
		out.changed = true
	case value <= spec.BuyThreshold && !active:
		out.notification = notifier.FormatRSIOversold(rule, spec, value, lastPrice)
		out.active = true
		out.changed = true
	case value > spec.BuyThreshold && value < spec.SellThreshold && active:
		out.lines = append(out.lines, fmt.Sprintf("[reset] %s returned to normal range", key))
		out.active = false
		out.changed = true
	}
	return out
}

// decideBands applies the Bollinger Bands transition rule against the last
// price. A zero-width band reports its status but skips the breakout logic
// entirely.
func decideBands(rule model.AlertRule, spec model.IndicatorSpec, key string, bands model.Bands, lastPrice float64, active bool) outcome {
	out := outcome{active: active}
	out.lines = append(out.lines, fmt.Sprintf("[indicator] %s: %s", spec.Label(), bandGauge(lastPrice, bands)))

	if bands.Width() == 0 {
		return out
	}

	switch {
	case lastPrice > bands.Upper && !active:
		out.notification = notifier.FormatUpperBreakout(rule, bands.Upper, lastPrice)
		out.active = true
		out.changed = true
	case lastPrice < bands.Lower && !active:
		out.notification = notifier.FormatLowerBreakout(rule, bands.Lower, lastPrice)
		out.active = true
		out.changed = true
	case lastPrice >= bands.Lower && lastPrice <= bands.Upper && active:
		out.lines = append(out.lines, fmt.Sprintf("[reset] %s returned to normal range", key))
		out.active = false
		out.changed = true
	}
	return out
}
