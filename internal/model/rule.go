package model

import "fmt"

// IndicatorKind identifies a supported technical indicator.
type IndicatorKind string

const (
	IndicatorRSI       IndicatorKind = "RSI"
	IndicatorBollinger IndicatorKind = "BollingerBands"
)

// IndicatorSpec holds one indicator's parameters within an alert rule.
// BuyThreshold/SellThreshold apply to RSI, StdDev to BollingerBands.
type IndicatorSpec struct {
	Kind          IndicatorKind
	Period        int
	BuyThreshold  float64
	SellThreshold float64
	StdDev        float64
}

// Validate checks the spec's numeric parameters.
func (s IndicatorSpec) Validate() error {
	if s.Period < 1 {
		return fmt.Errorf("%s: period must be >= 1, got %d", s.Kind, s.Period)
	}
	switch s.Kind {
	case IndicatorRSI:
		if s.BuyThreshold >= s.SellThreshold {
			return fmt.Errorf("RSI: buy_threshold (%g) must be below sell_threshold (%g)", s.BuyThreshold, s.SellThreshold)
		}
	case IndicatorBollinger:
		if s.StdDev <= 0 {
			return fmt.Errorf("BollingerBands: std_dev must be positive, got %g", s.StdDev)
		}
	default:
		return fmt.Errorf("unknown indicator kind %q", s.Kind)
	}
	return nil
}

// Label is the short display form used in status lines, e.g. "RSI(13)" or "BB(30, 2.0)".
func (s IndicatorSpec) Label() string {
	if s.Kind == IndicatorBollinger {
		return fmt.Sprintf("BB(%d, %.1f)", s.Period, s.StdDev)
	}
	return fmt.Sprintf("%s(%d)", s.Kind, s.Period)
}

// AlertRule binds one (symbol, interval) pair to the indicators monitored for it.
// Rules are static for the process lifetime.
type AlertRule struct {
	Symbol     string
	Interval   string
	Indicators []IndicatorSpec
}

// Validate checks the rule and all of its indicator specs.
func (r AlertRule) Validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("alert rule: symbol is required")
	}
	if r.Interval == "" {
		return fmt.Errorf("alert rule %s: interval is required", r.Symbol)
	}
	if len(r.Indicators) == 0 {
		return fmt.Errorf("alert rule %s (%s): at least one indicator is required", r.Symbol, r.Interval)
	}
	for _, ind := range r.Indicators {
		if err := ind.Validate(); err != nil {
			return fmt.Errorf("alert rule %s (%s): %w", r.Symbol, r.Interval, err)
		}
	}
	return nil
}

// IdentityKey returns the episode-tracking key for one (rule, indicator kind)
// combination. Identity includes the indicator kind, so RSI and Bollinger
// episodes on the same pair never collide.
func (r AlertRule) IdentityKey(kind IndicatorKind) string {
	return fmt.Sprintf("%s-%s-%s", r.Symbol, r.Interval, kind)
}
