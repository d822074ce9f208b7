// Package engine evaluates alert rules: it retrieves a kline window per rule,
// computes the configured indicators, and runs each result through the
// edge-triggered alert state machine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"KlineWatch/internal/calculator"
	"KlineWatch/internal/collector"
	"KlineWatch/internal/metrics"
	"KlineWatch/internal/model"
	"KlineWatch/internal/notifier"
	"KlineWatch/internal/recorder"
	"KlineWatch/internal/state"

	"github.com/google/uuid"
)

// DefaultWindowLimit is the kline window size requested per rule; large enough
// for the biggest configured period.
const DefaultWindowLimit = 200

// Engine evaluates alert rules against fresh kline data.
type Engine struct {
	Fetcher     collector.Fetcher
	Store       *state.Store
	Notifier    notifier.Notifier
	Recorder    recorder.Recorder
	Metrics     *metrics.Metrics
	WindowLimit int
}

// NewEngine creates an engine. Recorder may be nil (a no-op recorder is
// substituted); Metrics may be nil to disable instrumentation.
func NewEngine(f collector.Fetcher, s *state.Store, n notifier.Notifier, r recorder.Recorder, m *metrics.Metrics) *Engine {
	if r == nil {
		r = recorder.NewNoopRecorder()
	}
	return &Engine{
		Fetcher:     f,
		Store:       s,
		Notifier:    n,
		Recorder:    r,
		Metrics:     m,
		WindowLimit: DefaultWindowLimit,
	}
}

// RuleReport collects everything produced while evaluating one rule.
type RuleReport struct {
	Rule          model.AlertRule
	Lines         []string
	Notifications []string
	DataError     bool
	Duration      time.Duration
}

// PassReport aggregates the reports of one evaluation pass, in rule order.
type PassReport struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Reports   []RuleReport
}

// Notifications counts the notifications produced across all rules.
func (p *PassReport) Notifications() int {
	n := 0
	for _, r := range p.Reports {
		n += len(r.Notifications)
	}
	return n
}

// RunPass evaluates all rules concurrently and joins the results in the
// original rule order, so grouped log output stays deterministic even though
// evaluation is interleaved.
func (e *Engine) RunPass(ctx context.Context, rules []model.AlertRule) *PassReport {
	pass := &PassReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Reports:   make([]RuleReport, len(rules)),
	}

	var wg sync.WaitGroup
	for i, rule := range rules {
		wg.Add(1)
		go func(i int, rule model.AlertRule) {
			defer wg.Done()
			pass.Reports[i] = e.evaluateRule(ctx, pass.ID, rule)
		}(i, rule)
	}
	wg.Wait()
	pass.Duration = time.Since(pass.StartedAt)

	dataErrors := 0
	for _, r := range pass.Reports {
		if r.DataError {
			dataErrors++
		}
	}
	if e.Metrics != nil {
		e.Metrics.PassesTotal.Inc()
		e.Metrics.PassDuration.Observe(pass.Duration.Seconds())
		e.Metrics.EpisodesActive.Set(float64(len(e.Store.ActiveKeys())))
	}
	if err := e.Recorder.RecordPass(&recorder.PassRecord{
		ID:            pass.ID,
		StartedAt:     pass.StartedAt,
		Duration:      pass.Duration,
		Rules:         len(rules),
		Notifications: pass.Notifications(),
		DataErrors:    dataErrors,
	}); err != nil {
		log.Printf("[ERROR] record pass: %v", err)
	}
	return pass
}

// evaluateRule processes a single rule. Any failure, including a panic, is
// contained here and converted into status lines; it never aborts the other
// rules of the same pass.
func (e *Engine) evaluateRule(ctx context.Context, passID string, rule model.AlertRule) (rep RuleReport) {
	start := time.Now()
	rep.Rule = rule
	rep.Lines = append(rep.Lines, fmt.Sprintf("--- [%s (%s)] ---", rule.Symbol, rule.Interval))

	bars := 0
	defer func() {
		if r := recover(); r != nil {
			rep.Lines = append(rep.Lines, fmt.Sprintf("[error] %s (%s): unexpected failure: %v", rule.Symbol, rule.Interval, r))
		}
		rep.Duration = time.Since(start)
		if e.Metrics != nil {
			e.Metrics.RulesEvaluated.Inc()
		}
		if err := e.Recorder.RecordEvaluation(&recorder.EvaluationRecord{
			PassID:        passID,
			Symbol:        rule.Symbol,
			Interval:      rule.Interval,
			Bars:          bars,
			Notifications: len(rep.Notifications),
			DataError:     rep.DataError,
			Duration:      rep.Duration,
		}); err != nil {
			log.Printf("[ERROR] record evaluation: %v", err)
		}
	}()

	window, err := e.Fetcher.FetchKlines(ctx, rule.Symbol, rule.Interval, e.WindowLimit)
	if err != nil || len(window) == 0 {
		if err != nil {
			rep.Lines = append(rep.Lines, fmt.Sprintf("[data error] %s (%s): %v", rule.Symbol, rule.Interval, err))
		} else {
			rep.Lines = append(rep.Lines, fmt.Sprintf("[data error] %s (%s): no kline data returned", rule.Symbol, rule.Interval))
		}
		rep.DataError = true
		if e.Metrics != nil {
			e.Metrics.DataErrors.Inc()
		}
		return rep
	}
	bars = len(window)

	closes := model.Closes(window)
	lastPrice := closes[len(closes)-1]

	for _, spec := range rule.Indicators {
		key := rule.IdentityKey(spec.Kind)

		switch spec.Kind {
		case model.IndicatorRSI:
			value, err := calculator.CalculateRSI(closes, spec.Period)
			if err != nil {
				rep.Lines = append(rep.Lines, skipLine(spec, len(closes), err))
				continue
			}
			out := decideRSI(rule, spec, key, value, lastPrice, e.Store.Active(key))
			e.apply(ctx, passID, rule, spec, key, value, out, &rep)

		case model.IndicatorBollinger:
			bands, err := calculator.CalculateBollingerBands(closes, spec.Period, spec.StdDev)
			if err != nil {
				rep.Lines = append(rep.Lines, skipLine(spec, len(closes), err))
				continue
			}
			out := decideBands(rule, spec, key, bands, lastPrice, e.Store.Active(key))
			e.apply(ctx, passID, rule, spec, key, lastPrice, out, &rep)

		default:
			rep.Lines = append(rep.Lines, fmt.Sprintf("[skipped] unknown indicator %q", spec.Kind))
		}
	}
	return rep
}

// apply commits a state-machine outcome: status lines, episode flag update,
// and notification dispatch. The flag flip is authoritative before dispatch;
// a delivery failure is reported but never rolls the transition back.
func (e *Engine) apply(ctx context.Context, passID string, rule model.AlertRule, spec model.IndicatorSpec, key string, value float64, out outcome, rep *RuleReport) {
	rep.Lines = append(rep.Lines, out.lines...)
	if out.changed {
		e.Store.SetActive(key, out.active)
	}
	if out.notification == "" {
		return
	}

	rep.Notifications = append(rep.Notifications, out.notification)
	if e.Metrics != nil {
		e.Metrics.AlertsTriggered.WithLabelValues(string(spec.Kind)).Inc()
	}

	delivered := true
	if err := e.Notifier.Send(ctx, out.notification); err != nil {
		delivered = false
		log.Printf("[ERROR] dispatch notification for %s: %v", key, err)
		rep.Lines = append(rep.Lines, fmt.Sprintf("[notify error] %s: %v", key, err))
		if e.Metrics != nil {
			e.Metrics.NotifyFailures.Inc()
		}
	}
	if err := e.Recorder.RecordNotification(&recorder.NotificationRecord{
		PassID:      passID,
		IdentityKey: key,
		Symbol:      rule.Symbol,
		Interval:    rule.Interval,
		Indicator:   string(spec.Kind),
		Value:       value,
		Message:     out.notification,
		Delivered:   delivered,
	}); err != nil {
		log.Printf("[ERROR] record notification: %v", err)
	}
}

func skipLine(spec model.IndicatorSpec, bars int, err error) string {
	if errors.Is(err, calculator.ErrInsufficientHistory) {
		return fmt.Sprintf("[skipped] %s: insufficient history (%d bars)", spec.Label(), bars)
	}
	return fmt.Sprintf("[skipped] %s: %v", spec.Label(), err)
}
