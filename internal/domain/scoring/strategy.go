package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/okian/takathon/internal/domain/model"
)

// Strategy names.
const (
	StrategyWeighted = "weighted"
	StrategyBasic    = "basic"
)

// ErrUnknownStrategy is returned by NewStrategy for names it does not know.
var ErrUnknownStrategy = errors.New("unknown scoring strategy")

// Breakdown carries the per-criterion scores behind a final score.
type Breakdown struct {
	Skill        float64 `json:"skill"`
	Experience   float64 `json:"experience"`
	Availability float64 `json:"availability"`
	Role         float64 `json:"role"`
}

// Strategy maps a (team, candidate) pair to per-criterion scores and blends them.
// Implementations must be pure and safe for concurrent use.
type Strategy interface {
	Name() string
	Breakdown(team model.Team, candidate model.Participant) Breakdown
	Blend(b Breakdown) float64
}

// Weights are the blend coefficients of the weighted strategy. They are expected
// to be non-negative and sum to 1; config loading enforces that.
type Weights struct {
	Skill        float64 `koanf:"skill" json:"skill"`
	Experience   float64 `koanf:"experience" json:"experience"`
	Availability float64 `koanf:"availability" json:"availability"`
	Role         float64 `koanf:"role" json:"role"`
}

// DefaultWeights favours skill coverage and splits the rest evenly.
func DefaultWeights() Weights {
	return Weights{Skill: 0.4, Experience: 0.2, Availability: 0.2, Role: 0.2}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Skill + w.Experience + w.Availability + w.Role
}

// Option applies a configuration option to the Weighted strategy.
type Option func(*Weighted)

// WithWeights sets the blend weights.
func WithWeights(w Weights) Option {
	return func(s *Weighted) {
		s.weights = w
	}
}

// WithComplementarity sets the skill complementarity parameters. The critical
// slot map is copied to avoid external modifications.
func WithComplementarity(p ComplementarityParams) Option {
	return func(s *Weighted) {
		slots := make(map[string]int, len(p.CriticalSlots))
		for skill, n := range p.CriticalSlots {
			if k := model.NormalizeSkill(skill); k != "" && n > 0 {
				slots[k] = n
			}
		}
		p.CriticalSlots = slots
		s.complementarity = p
	}
}

// WithCriticalSkills marks skills as critical with one slot each.
func WithCriticalSkills(skills ...string) Option {
	return func(s *Weighted) {
		slots := make(map[string]int, len(s.complementarity.CriticalSlots)+len(skills))
		for k, v := range s.complementarity.CriticalSlots {
			slots[k] = v
		}
		for _, skill := range skills {
			if k := model.NormalizeSkill(skill); k != "" {
				slots[k] = 1
			}
		}
		s.complementarity.CriticalSlots = slots
	}
}

// WithExperience sets the experience balance parameters.
func WithExperience(p ExperienceParams) Option {
	return func(s *Weighted) {
		s.experience = p
	}
}

// Weighted is the v1 rule-based strategy: a fixed-weight linear blend of the four criteria.
type Weighted struct {
	weights         Weights
	complementarity ComplementarityParams
	experience      ExperienceParams
}

// NewWeighted creates the weighted strategy with default parameters and options applied.
func NewWeighted(opts ...Option) *Weighted {
	s := &Weighted{
		weights:         DefaultWeights(),
		complementarity: DefaultComplementarityParams(),
		experience:      DefaultExperienceParams(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Strategy.
func (s *Weighted) Name() string { return StrategyWeighted }

// Weights returns the configured weights.
func (s *Weighted) Weights() Weights { return s.weights }

// Breakdown implements Strategy.
func (s *Weighted) Breakdown(team model.Team, candidate model.Participant) Breakdown {
	// A team with no experience reference yet imposes no balance constraint.
	experience := 1.0
	if avg, ok := team.ExperienceReference(); ok {
		experience = ExperienceBalance(avg, candidate.ExperienceLevel(), s.experience)
	}
	return Breakdown{
		Skill:        SkillComplementarity(team.Coverage(), candidate.SkillSet(), s.complementarity),
		Experience:   experience,
		Availability: AvailabilityOverlap(team.Availability, candidate.Availability),
		Role:         RoleFit(team.RoleCoverage(), team.Needed(), candidate.PreferredRole),
	}
}

// Blend implements Strategy.
func (s *Weighted) Blend(b Breakdown) float64 {
	w := s.weights
	return clamp01(w.Skill*b.Skill + w.Experience*b.Experience + w.Availability*b.Availability + w.Role*b.Role)
}

// Basic point values.
const (
	basicNewSkillPoints      = 10
	basicNewCategoryPoints   = 5
	basicSharedSkillPoints   = 2
	basicMaxPoints           = 100
	basicPointsToScoreFactor = 1.0 / basicMaxPoints
)

// Basic is the point-counting heuristic used when a richer model is unavailable:
// points for each new skill, extra points when it opens a new category, a few
// points for shared skills, capped and scaled to [0,1]. Only the skill criterion
// is populated.
type Basic struct{}

// NewBasic creates the basic strategy.
func NewBasic() *Basic { return &Basic{} }

// Name implements Strategy.
func (Basic) Name() string { return StrategyBasic }

// Breakdown implements Strategy.
func (Basic) Breakdown(team model.Team, candidate model.Participant) Breakdown {
	coverage := team.Coverage()
	categories := team.Categories()

	points := 0
	seen := make(map[string]struct{}, len(candidate.Skills))
	for _, sk := range candidate.Skills {
		name := model.NormalizeSkill(sk.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		if coverage.Covers(name) {
			points += basicSharedSkillPoints
			continue
		}
		points += basicNewSkillPoints
		if _, ok := categories[sk.Category]; !ok && sk.Category != "" {
			points += basicNewCategoryPoints
		}
	}
	return Breakdown{Skill: math.Min(basicMaxPoints, float64(points)) * basicPointsToScoreFactor}
}

// Blend implements Strategy.
func (Basic) Blend(b Breakdown) float64 { return clamp01(b.Skill) }

// NewStrategy returns the strategy registered under name. Options apply to the
// weighted strategy only.
func NewStrategy(name string, opts ...Option) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyWeighted, "":
		return NewWeighted(opts...), nil
	case StrategyBasic:
		return NewBasic(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
