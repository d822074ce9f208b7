package recorder

import "time"

// PassRecord summarizes one full evaluation pass over all rules.
type PassRecord struct {
	ID            string
	StartedAt     time.Time
	Duration      time.Duration
	Rules         int
	Notifications int
	DataErrors    int
}

// EvaluationRecord holds the result of evaluating a single rule within a pass.
type EvaluationRecord struct {
	PassID        string
	Symbol        string
	Interval      string
	Bars          int
	Notifications int
	DataError     bool
	Duration      time.Duration
}

// NotificationRecord holds one dispatched (or failed) alert notification.
type NotificationRecord struct {
	PassID      string
	IdentityKey string
	Symbol      string
	Interval    string
	Indicator   string
	Value       float64
	Message     string
	Delivered   bool
}

// Recorder persists evaluation history for analysis.
type Recorder interface {
	RecordPass(rec *PassRecord) error
	RecordEvaluation(rec *EvaluationRecord) error
	RecordNotification(rec *NotificationRecord) error
	Close() error
}
