package main

import (
	"fmt"

	service "github.com/okian/takathon/internal/app"
	"github.com/okian/takathon/internal/config"
	"github.com/okian/takathon/internal/domain/eligibility"
	"github.com/okian/takathon/internal/domain/matching"
	"github.com/okian/takathon/internal/domain/scoring"
	"github.com/okian/takathon/pkg/logger"
)

// newEngine builds the ranking engine described by cfg.
func newEngine(cfg *config.Config) (*matching.Engine, error) {
	m := cfg.Matching
	strategy, err := scoring.NewStrategy(m.Strategy,
		scoring.WithWeights(m.Weights),
		scoring.WithComplementarity(scoring.ComplementarityParams{
			Saturation:    m.SkillSaturation,
			CriticalSlots: m.CriticalSkills,
			CriticalBonus: m.CriticalBonus,
		}),
		scoring.WithExperience(scoring.ExperienceParams{
			Tolerance: m.ExperienceTolerance,
			Falloff:   m.ExperienceFalloff,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("build strategy: %w", err)
	}

	fields, err := cfg.RequiredFields()
	if err != nil {
		return nil, err
	}
	validator := eligibility.New(
		eligibility.WithMinCompleteness(cfg.Eligibility.MinCompleteness),
		eligibility.WithRequiredFields(fields...),
	)

	return matching.New(matching.WithStrategy(strategy), matching.WithValidator(validator)), nil
}

// newService builds the matching service described by cfg.
func newService(cfg *config.Config, l logger.Logger) (*service.Service, error) {
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	return service.New(
		service.WithLogger(l),
		service.WithEngine(engine),
		service.WithDefaultLimit(cfg.Matching.DefaultLimit),
		service.WithMaxLimit(cfg.Matching.MaxLimit),
		service.WithTeamSizeBounds(cfg.Team.MinSize, cfg.Team.MaxSize),
		service.WithStrictIDs(cfg.StrictIDs),
		service.WithMinCompleteness(cfg.Eligibility.MinCompleteness),
	), nil
}
