package validation

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
)

// reviewNamespace scopes review IDs.
var reviewNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hiscores/reviews"))

// NegativeGain is one metric that decreased.
type NegativeGain struct {
	Metric    metric.Metric `json:"metric"`
	Previous  float64       `json:"previous"`
	Candidate float64       `json:"candidate"`
	Amount    float64       `json:"amount"`
}

// ReviewContext explains a rejection for moderators.
type ReviewContext struct {
	ID       string         `json:"id"`
	PlayerID string         `json:"player_id"`
	Previous model.Snapshot `json:"previous"`
	Rejected model.Snapshot `json:"rejected"`
	// Successor is set when a backfill conflicts with a later snapshot; its
	// negative gains then read from the rejected snapshot to the successor.
	Successor     *model.Snapshot `json:"successor,omitempty"`
	Rules         []Rule          `json:"rules"`
	NegativeGains []NegativeGain  `json:"negative_gains,omitempty"`
	EHPDiff       float64         `json:"ehp_diff"`
	EHBDiff       float64         `json:"ehb_diff"`
	HoursElapsed  float64         `json:"hours_elapsed"`
	HoursAllowed  float64         `json:"hours_allowed"`
	Messages      []string        `json:"messages"`
}

// Fired reports whether rule r rejected the snapshot.
func (r *ReviewContext) Fired(rule Rule) bool {
	for _, f := range r.Rules {
		if f == rule {
			return true
		}
	}
	return false
}

// ReviewID derives a stable review ID from the player and both timestamps,
// so re-validating the same pair reproduces the same review.
func ReviewID(playerID string, previous, candidate time.Time) string {
	key := playerID + "|" + previous.UTC().Format(time.RFC3339Nano) + "|" + candidate.UTC().Format(time.RFC3339Nano)
	return uuid.NewSHA1(reviewNamespace, []byte(key)).String()
}

func (v *Validator) messages(r *ReviewContext) []string {
	out := make([]string, 0, len(r.NegativeGains)+1)
	for _, g := range r.NegativeGains {
		out = append(out, v.printer.Sprintf("%s %s decreased by %d",
			g.Metric.Name(), g.Metric.Measure(), int64(g.Amount)))
	}
	if r.Fired(RuleExcessiveGains) {
		out = append(out, v.printer.Sprintf("Gained %.2f EHP and %.2f EHB in %.2f hours (at most %.2f allowed)",
			r.EHPDiff, r.EHBDiff, r.HoursElapsed, r.HoursAllowed))
	}
	return out
}
