// Package validation decides whether a new snapshot is a believable
// successor of the previous one.
package validation

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/hiscores/internal/domain/efficiency"
	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
)

// ExcessiveGainsFloorHours is the least elapsed time the excessive gains
// rule ever allows for.
const ExcessiveGainsFloorHours = 120

// BountyHunterReset is when a game update reset both bounty hunter scores.
var BountyHunterReset = time.Date(2023, time.May, 24, 10, 0, 0, 0, time.UTC)

// Rule names a rejection rule.
type Rule string

// Rules.
const (
	RuleNegativeGains  Rule = "negative_gains"
	RuleExcessiveGains Rule = "excessive_gains"
)

// Verdict is the outcome of validating a candidate snapshot.
type Verdict struct {
	Accepted bool
	// Changed reports whether any tracked metric increased. Unchanged
	// snapshots are accepted but need no downstream work.
	Changed bool
	// Review is set on rejection.
	Review *ReviewContext
}

// Option applies a configuration option to the Validator.
type Option func(*Validator)

// WithLanguage sets the language review messages are rendered in.
func WithLanguage(tag language.Tag) Option {
	return func(v *Validator) {
		v.printer = message.NewPrinter(tag)
	}
}

// Validator applies the negative and excessive gains rules.
type Validator struct {
	calc    efficiency.Calculator
	printer *message.Printer
}

// NewValidator creates a validator reading efficiency from calc.
func NewValidator(calc efficiency.Calculator, opts ...Option) *Validator {
	v := &Validator{
		calc:    calc,
		printer: message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// alwaysIgnored metrics fluctuate on their own and are never negative gains.
var alwaysIgnored = map[metric.Metric]bool{
	metric.EHP:             true,
	metric.EHB:             true,
	metric.LastManStanding: true,
	metric.PvpArena:        true,
}

// ignored reports whether m may decrease between previous and candidate.
func ignored(m metric.Metric, previous, candidate time.Time) bool {
	if alwaysIgnored[m] {
		return true
	}
	if m == metric.BountyHunterHunter || m == metric.BountyHunterRogue {
		return previous.Before(BountyHunterReset) && !candidate.Before(BountyHunterReset)
	}
	return false
}

// NegativeGains returns every tracked metric that decreased.
func NegativeGains(previous, candidate model.Snapshot) []NegativeGain {
	var out []NegativeGain
	for _, m := range metric.All() {
		if ignored(m, previous.CreatedAt, candidate.CreatedAt) {
			continue
		}
		before, after := previous.Value(m), candidate.Value(m)
		if after > model.Unranked && after < before {
			out = append(out, NegativeGain{Metric: m, Previous: before, Candidate: after, Amount: before - after})
		}
	}
	return out
}

// HasChanged reports whether any metric other than EHP and EHB increased.
// Every snapshot changes a missing previous one.
func HasChanged(previous *model.Snapshot, candidate model.Snapshot) bool {
	if previous == nil {
		return true
	}
	for _, m := range metric.All() {
		if m.IsComputed() {
			continue
		}
		if candidate.Value(m) > previous.Value(m) {
			return true
		}
	}
	return false
}

// Validate judges candidate against the player's previous snapshot.
func (v *Validator) Validate(previous *model.Snapshot, candidate model.Snapshot, p model.Player) Verdict {
	if previous == nil {
		return Verdict{Accepted: true, Changed: true}
	}

	review := &ReviewContext{
		PlayerID: p.ID,
		Previous: *previous,
		Rejected: candidate,
	}

	if gains := NegativeGains(*previous, candidate); len(gains) > 0 {
		review.Rules = append(review.Rules, RuleNegativeGains)
		review.NegativeGains = gains
	}

	before, after := v.calc.ComputeFor(*previous, p), v.calc.ComputeFor(candidate, p)
	review.EHPDiff = model.Round(after.EHP - before.EHP)
	review.EHBDiff = model.Round(after.EHB - before.EHB)
	review.HoursElapsed = model.Round(candidate.CreatedAt.Sub(previous.CreatedAt).Hours())
	review.HoursAllowed = math.Max(ExcessiveGainsFloorHours, review.HoursElapsed)
	if review.EHPDiff+review.EHBDiff > review.HoursAllowed {
		review.Rules = append(review.Rules, RuleExcessiveGains)
	}

	if len(review.Rules) == 0 {
		return Verdict{Accepted: true, Changed: HasChanged(previous, candidate)}
	}
	review.ID = ReviewID(p.ID, previous.CreatedAt, candidate.CreatedAt)
	review.Messages = v.messages(review)
	return Verdict{Review: review}
}

// ValidateBackfill judges a candidate landing before an already accepted
// successor. It must be a believable successor of previous and must not hold
// more than successor on any tracked metric.
func (v *Validator) ValidateBackfill(previous *model.Snapshot, candidate, successor model.Snapshot, p model.Player) Verdict { //nolint:gocritic // hugeParam
	verdict := v.Validate(previous, candidate, p)
	if !verdict.Accepted {
		return verdict
	}
	gains := NegativeGains(candidate, successor)
	if len(gains) == 0 {
		return verdict
	}
	review := &ReviewContext{
		ID:            ReviewID(p.ID, candidate.CreatedAt, successor.CreatedAt),
		PlayerID:      p.ID,
		Rejected:      candidate,
		Successor:     &successor,
		Rules:         []Rule{RuleNegativeGains},
		NegativeGains: gains,
		HoursElapsed:  model.Round(successor.CreatedAt.Sub(candidate.CreatedAt).Hours()),
	}
	if previous != nil {
		review.Previous = *previous
	}
	review.Messages = v.messages(review)
	return Verdict{Review: review}
}
