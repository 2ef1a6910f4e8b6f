// Package scoring holds the pure sub-scores used to rank teammate candidates and
// the strategies that blend them.
//
// Every function here is total and deterministic and returns a value in [0,1].
// None of them validate configuration; that happens when config is loaded.
package scoring

import (
	"math"

	"github.com/okian/takathon/internal/domain/model"
)

// Default scoring parameters.
const (
	DefaultSaturation          = 1.0
	DefaultCriticalBonus       = 0.25
	DefaultExperienceTolerance = 0.5
	DefaultExperienceFalloff   = 2.5

	// unlistedRoleFactor scales role fit when the team lists open roles and the
	// candidate's role is not one of them.
	unlistedRoleFactor = 0.5
)

// ComplementarityParams tunes SkillComplementarity.
type ComplementarityParams struct {
	// Saturation is the number of new skills at which the base score reaches 0.5.
	Saturation float64
	// CriticalSlots maps a skill to the number of holders the team should have.
	CriticalSlots map[string]int
	// CriticalBonus is added for each critical slot the candidate fills.
	CriticalBonus float64
}

// DefaultComplementarityParams returns the documented defaults with no critical skills.
func DefaultComplementarityParams() ComplementarityParams {
	return ComplementarityParams{Saturation: DefaultSaturation, CriticalBonus: DefaultCriticalBonus}
}

// ExperienceParams tunes ExperienceBalance.
type ExperienceParams struct {
	// Tolerance is the deviation accepted without penalty.
	Tolerance float64
	// Falloff is the extra deviation over which the score drops linearly to 0.
	Falloff float64
}

// DefaultExperienceParams returns the documented defaults.
func DefaultExperienceParams() ExperienceParams {
	return ExperienceParams{Tolerance: DefaultExperienceTolerance, Falloff: DefaultExperienceFalloff}
}

// SkillComplementarity scores how much a candidate fills the team's skill gaps.
//
// With n new skills, the base is n/(n+Saturation): each additional new skill adds
// less than the previous one. An empty team scores any non-empty candidate 1.
// A candidate whose skills are all covered scores 0 unless they fill a critical
// slot, which adds CriticalBonus per slot.
func SkillComplementarity(team model.Coverage, candidate model.SkillSet, p ComplementarityParams) float64 {
	if len(candidate) == 0 {
		return 0
	}
	if len(team) == 0 {
		return 1
	}

	saturation := p.Saturation
	if !(saturation > 0) || math.IsInf(saturation, 0) {
		saturation = DefaultSaturation
	}

	newSkills := 0
	for skill := range candidate {
		if !team.Covers(skill) {
			newSkills++
		}
	}
	score := float64(newSkills) / (float64(newSkills) + saturation)

	if p.CriticalBonus > 0 {
		for skill, slots := range p.CriticalSlots {
			if candidate.Has(skill) && team.Holders(skill) < slots {
				score += p.CriticalBonus
			}
		}
	}
	return clamp01(score)
}

// ExperienceBalance scores how close the candidate's experience is to the team average.
// It is 1 within Tolerance and falls linearly to 0 over Falloff beyond it.
func ExperienceBalance(teamAvg, candidate float64, p ExperienceParams) float64 {
	if math.IsNaN(teamAvg) || math.IsNaN(candidate) {
		return 0
	}
	d := math.Abs(candidate - teamAvg)
	if math.IsInf(d, 0) {
		return 0
	}

	tolerance := math.Max(0, p.Tolerance)
	if d <= tolerance {
		return 1
	}
	falloff := p.Falloff
	if !(falloff > 0) {
		return 0
	}
	return clamp01(1 - (d-tolerance)/falloff)
}

// AvailabilityOverlap is the fraction of the team's available time the candidate
// shares. A team with no windows imposes no constraint and scores 1; a candidate
// with no windows against a constrained team scores 0.
func AvailabilityOverlap(team, candidate []model.Window) float64 {
	t := model.MergeWindows(team)
	total := model.TotalDuration(t)
	if total <= 0 {
		return 1
	}
	c := model.MergeWindows(candidate)
	if len(c) == 0 {
		return 0
	}
	return clamp01(float64(model.IntersectDuration(t, c)) / float64(total))
}

// RoleFit scores the candidate's preferred role against the team.
// A role the team explicitly needs scores 1. Otherwise the score is 1/(1+k) where
// k is the number of members already in that role, halved when the team listed
// needed roles and this is not one of them.
func RoleFit(coverage map[model.Role]int, needed []model.Role, candidate model.Role) float64 {
	role := model.NormalizeRole(candidate)
	if role == "" {
		return 0
	}
	for _, r := range needed {
		if model.NormalizeRole(r) == role {
			return 1
		}
	}
	k := coverage[role]
	if k < 0 {
		k = 0
	}
	score := 1 / float64(1+k)
	if len(needed) > 0 {
		score *= unlistedRoleFactor
	}
	return score
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}
