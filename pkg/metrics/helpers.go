package metrics

import "time"

// StoreOperation names a shared-store call for metric labeling.
type StoreOperation string

const (
	StoreOpGetRates StoreOperation = "get_rates"
	StoreOpSetRates StoreOperation = "set_rates"
	StoreOpPublish  StoreOperation = "publish"
)

// StoreTimer times one shared-store call and records its outcome.
type StoreTimer struct {
	operation StoreOperation
	start     time.Time
}

func NewStoreTimer(op StoreOperation) *StoreTimer {
	return &StoreTimer{operation: op, start: time.Now()}
}

func (st *StoreTimer) ObserveDuration() {
	StoreOperationDuration.WithLabelValues(string(st.operation)).Observe(time.Since(st.start).Seconds())
}

func RecordStoreError(op StoreOperation) {
	StoreErrors.WithLabelValues(string(op)).Inc()
}

// Timer is a generic stopwatch used where no dedicated histogram label set applies.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

func (t *Timer) Seconds() float64 {
	return time.Since(t.start).Seconds()
}
