package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"KlineWatch/internal/model"
)

// FormatRSIOverbought builds the notification text for an RSI sell-threshold crossing.
func FormatRSIOverbought(rule model.AlertRule, spec model.IndicatorSpec, value, lastPrice float64) string {
	return fmt.Sprintf("🔺 <b>RSI overbought</b> | %s (%s)\nRSI at or above %g: %.2f (price: %g)",
		rule.Symbol, rule.Interval, spec.SellThreshold, value, lastPrice)
}

// FormatRSIOversold builds the notification text for an RSI buy-threshold crossing.
func FormatRSIOversold(rule model.AlertRule, spec model.IndicatorSpec, value, lastPrice float64) string {
	return fmt.Sprintf("🔻 <b>RSI oversold</b> | %s (%s)\nRSI at or below %g: %.2f (price: %g)",
		rule.Symbol, rule.Interval, spec.BuyThreshold, value, lastPrice)
}

// FormatUpperBreakout builds the notification text for a price above the upper band.
func FormatUpperBreakout(rule model.AlertRule, upper, lastPrice float64) string {
	return fmt.Sprintf("🔺 <b>BB upper breakout</b> | %s (%s)\nprice %g broke above the upper band (%.2f)",
		rule.Symbol, rule.Interval, lastPrice, upper)
}

// FormatLowerBreakout builds the notification text for a price below the lower band.
func FormatLowerBreakout(rule model.AlertRule, lower, lastPrice float64) string {
	return fmt.Sprintf("🔻 <b>BB lower breakout</b> | %s (%s)\nprice %g broke below the lower band (%.2f)",
		rule.Symbol, rule.Interval, lastPrice, lower)
}

// FormatRules lists the configured alert rules for the /rules command.
func FormatRules(rules []model.AlertRule) string {
	var b strings.Builder
	b.WriteString("📋 <b>Monitored rules</b>\n\n")
	for _, r := range rules {
		labels := make([]string, len(r.Indicators))
		for i, ind := range r.Indicators {
			labels[i] = ind.Label()
		}
		b.WriteString(fmt.Sprintf("• %s (%s): %s\n", r.Symbol, r.Interval, strings.Join(labels, ", ")))
	}
	return b.String()
}

// FormatStatus summarizes active episodes and the last pass for the /status command.
func FormatStatus(activeKeys []string, lastPassAt time.Time, lastPassDuration time.Duration) string {
	var b strings.Builder
	b.WriteString("📊 <b>Alert status</b>\n\n")
	if lastPassAt.IsZero() {
		b.WriteString("No evaluation pass has run yet.\n")
	} else {
		b.WriteString(fmt.Sprintf("Last pass: %s (took %v)\n", lastPassAt.Format("2006-01-02 15:04:05"), lastPassDuration.Round(time.Millisecond)))
	}
	if len(activeKeys) == 0 {
		b.WriteString("Active episodes: none\n")
	} else {
		sort.Strings(activeKeys)
		b.WriteString(fmt.Sprintf("Active episodes (%d):\n", len(activeKeys)))
		for _, k := range activeKeys {
			b.WriteString(fmt.Sprintf("  • %s\n", k))
		}
	}
	return b.String()
}
