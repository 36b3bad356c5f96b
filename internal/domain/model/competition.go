package model

import (
	"time"

	"github.com/okian/hiscores/internal/domain/metric"
)

// Competition tracks gains in a metric set over a fixed window.
type Competition struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Metrics []metric.Metric `json:"metrics"`
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
}

// Active reports whether t falls inside [Start, End].
func (c Competition) Active(t time.Time) bool {
	return !t.Before(c.Start) && !t.After(c.End)
}
