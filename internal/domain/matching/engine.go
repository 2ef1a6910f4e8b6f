// Package matching ranks teammate candidates for a forming team.
//
// Ordering: score DESC, then participant ID ASC (deterministic). Scores are
// compared in fixed point so float noise cannot reorder candidates that tie.
package matching

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/takathon/internal/domain/eligibility"
	"github.com/okian/takathon/internal/domain/model"
	"github.com/okian/takathon/internal/domain/scoring"
)

// scoreScale controls fixed-point scaling from float64 (12 decimal places).
const scoreScale = 1_000_000_000_000

type scoreFP int64

// toFixedPoint maps a score in [0,1] to fixed point. NaN ranks as 0.
func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	return scoreFP(math.Round(math.Max(0, math.Min(1, x)) * scoreScale))
}

// Recommendation is one ranked candidate.
type Recommendation struct {
	Participant         model.Participant
	Score               float64
	Breakdown           scoring.Breakdown
	ComplementarySkills []string
	CommonSkills        []string
	Reasons             []string
}

// Result is a ranked list plus bookkeeping about what was filtered out.
type Result struct {
	Recommendations []Recommendation
	Strategy        string
	Considered      int
	Excluded        int
	Exclusions      map[eligibility.Reason]int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithStrategy sets the scoring strategy. Nil is ignored.
func WithStrategy(s scoring.Strategy) Option {
	return func(e *Engine) {
		if s != nil {
			e.strategy = s
		}
	}
}

// WithValidator sets the eligibility validator. Nil is ignored.
func WithValidator(v *eligibility.Validator) Option {
	return func(e *Engine) {
		if v != nil {
			e.validator = v
		}
	}
}

// Engine is a stateless scorer and ranker. It holds only immutable configuration
// and is safe for concurrent use.
type Engine struct {
	strategy  scoring.Strategy
	validator *eligibility.Validator
}

// New creates an Engine using the weighted strategy and default eligibility rules.
func New(opts ...Option) *Engine {
	e := &Engine{
		strategy:  scoring.NewWeighted(),
		validator: eligibility.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StrategyName returns the name of the configured strategy.
func (e *Engine) StrategyName() string { return e.strategy.Name() }

// RecommendTeammates returns up to limit eligible candidates for team, best first.
// A non-positive limit or an empty pool yields an empty list. Inputs are never modified.
func (e *Engine) RecommendTeammates(team model.Team, available []model.Participant, limit int) []Recommendation {
	return e.Recommend(team, available, limit).Recommendations
}

// Recommend is RecommendTeammates with filtering statistics.
func (e *Engine) Recommend(team model.Team, available []model.Participant, limit int) Result {
	res := Result{
		Recommendations: []Recommendation{},
		Strategy:        e.strategy.Name(),
		Considered:      len(available),
		Exclusions:      map[eligibility.Reason]int{},
	}
	if limit <= 0 || len(available) == 0 {
		return res
	}

	seen := make(map[string]struct{}, len(available))
	ranked := make([]rankedCandidate, 0, len(available))
	for i := range available {
		p := available[i]
		if reason := e.exclusion(team, p, seen); reason != eligibility.ReasonNone {
			res.Exclusions[reason]++
			res.Excluded++
			continue
		}
		seen[p.ID] = struct{}{}

		b := e.strategy.Breakdown(team, p)
		score := e.strategy.Blend(b)
		ranked = append(ranked, rankedCandidate{
			participant: p,
			score:       score,
			fp:          toFixedPoint(score),
			breakdown:   b,
		})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].less(ranked[j]) })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	res.Recommendations = make([]Recommendation, len(ranked))
	for i, rc := range ranked {
		res.Recommendations[i] = e.Explain(team, Recommendation{
			Participant: rc.participant,
			Score:       rc.score,
			Breakdown:   rc.breakdown,
		})
	}
	return res
}

// exclusion returns why p cannot be recommended for team, or ReasonNone.
func (e *Engine) exclusion(team model.Team, p model.Participant, seen map[string]struct{}) eligibility.Reason {
	if reason := e.validator.Check(p, team.HackathonID); reason != eligibility.ReasonNone {
		return reason
	}
	if team.IsMember(p.ID) {
		return eligibility.ReasonAlreadyOnTeam
	}
	if _, dup := seen[p.ID]; dup {
		return eligibility.ReasonDuplicateRecord
	}
	return eligibility.ReasonNone
}

type rankedCandidate struct {
	participant model.Participant
	score       float64
	fp          scoreFP
	breakdown   scoring.Breakdown
}

// less reports whether a ranks before b.
func (a rankedCandidate) less(b rankedCandidate) bool {
	if a.fp != b.fp {
		return a.fp > b.fp
	}
	return a.participant.ID < b.participant.ID
}

// Explain fills the complementary skills, common skills and reasons of r
// relative to team. Score and Breakdown are taken as given.
func (e *Engine) Explain(team model.Team, r Recommendation) Recommendation {
	coverage := team.Coverage()
	var complementary, common []string
	for _, s := range r.Participant.SkillSet().Sorted() {
		if coverage.Covers(s) {
			common = append(common, s)
		} else {
			complementary = append(complementary, s)
		}
	}

	reasons := make([]string, 0, 4)
	if n := len(complementary); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Brings %d complementary skill(s)", n))
	}
	if n := len(common); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Shares %d skill(s) with team", n))
	}
	role := r.Participant.Role()
	for _, needed := range team.Needed() {
		if needed == role {
			reasons = append(reasons, fmt.Sprintf("Fills needed role: %s", role))
			break
		}
	}
	if _, ok := team.ExperienceReference(); ok && r.Breakdown.Experience == 1 {
		reasons = append(reasons, "Experience level matches the team")
	}
	if len(model.MergeWindows(team.Availability)) > 0 && r.Breakdown.Availability > 0 {
		reasons = append(reasons, fmt.Sprintf("Available for %.0f%% of team hours", r.Breakdown.Availability*100))
	}

	r.ComplementarySkills = complementary
	r.CommonSkills = common
	r.Reasons = reasons
	return r
}
