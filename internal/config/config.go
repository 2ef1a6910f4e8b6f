// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config holding every default.
// - Load layers a YAML file and TAKATHON_ environment variables on top.
// - Validate rejects configurations the engine cannot run with.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/okian/takathon/internal/domain/eligibility"
	"github.com/okian/takathon/internal/domain/scoring"
)

// weightSumTolerance bounds how far the blend weights may drift from 1.
const weightSumTolerance = 1e-6

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoder: console or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8001".
	Addr string `koanf:"addr"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSAllowedOrigins lists the browser origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// StrictIDs requires team IDs to be UUIDs.
	StrictIDs bool `koanf:"strict_ids"`

	Matching    Matching    `koanf:"matching"`
	Eligibility Eligibility `koanf:"eligibility"`
	Team        Team        `koanf:"team"`
}

// Matching tunes scoring and result sizes.
type Matching struct {
	// Strategy selects the scoring strategy: weighted or basic.
	Strategy string `koanf:"strategy"`

	// DefaultLimit applies when a request does not set one.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps the limit a request may ask for.
	MaxLimit int `koanf:"max_limit"`

	Weights scoring.Weights `koanf:"weights"`

	// CriticalSkills maps a skill to the number of holders a team should have.
	CriticalSkills map[string]int `koanf:"critical_skills"`

	CriticalBonus       float64 `koanf:"critical_bonus"`
	SkillSaturation     float64 `koanf:"skill_saturation"`
	ExperienceTolerance float64 `koanf:"experience_tolerance"`
	ExperienceFalloff   float64 `koanf:"experience_falloff"`
}

// Eligibility tunes which participants may be recommended.
type Eligibility struct {
	MinCompleteness float64  `koanf:"min_completeness"`
	RequiredFields  []string `koanf:"required_fields"`
}

// Team holds the hackathon team-size bounds.
type Team struct {
	MinSize int `koanf:"min_size"`
	MaxSize int `koanf:"max_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "console",
		Addr:               ":8001",
		ShutdownTimeout:    10 * time.Second,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		Matching: Matching{
			Strategy:            scoring.StrategyWeighted,
			DefaultLimit:        5,
			MaxLimit:            100,
			Weights:             scoring.DefaultWeights(),
			CriticalSkills:      map[string]int{},
			CriticalBonus:       scoring.DefaultCriticalBonus,
			SkillSaturation:     scoring.DefaultSaturation,
			ExperienceTolerance: scoring.DefaultExperienceTolerance,
			ExperienceFalloff:   scoring.DefaultExperienceFalloff,
		},
		Eligibility: Eligibility{
			MinCompleteness: 0.5,
			RequiredFields:  []string{string(eligibility.FieldSkills), string(eligibility.FieldRole)},
		},
		Team: Team{
			MinSize: eligibility.DefaultMinTeamSize,
			MaxSize: 4,
		},
	}
}

// Validate reports the first problem that would make the engine misbehave.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return invalid("addr must not be empty")
	}
	if c.ShutdownTimeout < 0 {
		return invalid("shutdown_timeout must not be negative")
	}

	m := c.Matching
	if _, err := scoring.NewStrategy(m.Strategy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if m.DefaultLimit <= 0 || m.MaxLimit <= 0 {
		return invalid("matching limits must be positive")
	}
	if m.DefaultLimit > m.MaxLimit {
		return invalid("matching.default_limit %d exceeds matching.max_limit %d", m.DefaultLimit, m.MaxLimit)
	}
	w := m.Weights
	for name, v := range map[string]float64{
		"skill": w.Skill, "experience": w.Experience, "availability": w.Availability, "role": w.Role,
	} {
		if v < 0 || math.IsNaN(v) {
			return invalid("matching.weights.%s must be non-negative", name)
		}
	}
	if math.Abs(w.Sum()-1) > weightSumTolerance {
		return invalid("matching.weights must sum to 1, got %g", w.Sum())
	}
	for skill, slots := range m.CriticalSkills {
		if slots <= 0 {
			return invalid("matching.critical_skills.%s must be positive", skill)
		}
	}
	if m.CriticalBonus < 0 || m.CriticalBonus > 1 {
		return invalid("matching.critical_bonus must be within [0,1]")
	}
	if !(m.SkillSaturation > 0) {
		return invalid("matching.skill_saturation must be positive")
	}
	if m.ExperienceTolerance < 0 || m.ExperienceFalloff < 0 {
		return invalid("matching experience tolerance and falloff must not be negative")
	}

	e := c.Eligibility
	if e.MinCompleteness < 0 || e.MinCompleteness > 1 {
		return invalid("eligibility.min_completeness must be within [0,1]")
	}
	if _, err := c.RequiredFields(); err != nil {
		return err
	}

	if c.Team.MinSize <= 0 {
		return invalid("team.min_size must be positive")
	}
	if c.Team.MaxSize < c.Team.MinSize {
		return invalid("team.max_size %d is below team.min_size %d", c.Team.MaxSize, c.Team.MinSize)
	}
	return nil
}

// RequiredFields parses Eligibility.RequiredFields.
func (c *Config) RequiredFields() ([]eligibility.Field, error) {
	out := make([]eligibility.Field, 0, len(c.Eligibility.RequiredFields))
	for _, raw := range c.Eligibility.RequiredFields {
		f := eligibility.Field(strings.ToLower(strings.TrimSpace(raw)))
		switch f {
		case eligibility.FieldSkills, eligibility.FieldRole, eligibility.FieldAvailability, eligibility.FieldExperience:
			out = append(out, f)
		case "":
		default:
			return nil, invalid("eligibility.required_fields: unknown field %q", raw)
		}
	}
	return out, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
