// Package model contains domain models passed between layers.
package model

import (
	"sort"
	"strings"
)

// Category groups skills into broad areas.
type Category string

// Known skill categories.
const (
	CategoryFrontend          Category = "frontend"
	CategoryBackend           Category = "backend"
	CategoryDesign            Category = "design"
	CategoryDataScience       Category = "data_science"
	CategoryMobile            Category = "mobile"
	CategoryDevOps            Category = "devops"
	CategoryProductManagement Category = "product_management"
	CategoryOther             Category = "other"
)

// Proficiency is a participant's self-declared level in one skill.
type Proficiency string

// Proficiency levels, lowest to highest.
const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

// Level maps a proficiency onto the experience scale used for balancing (1..4).
// Unknown values map to 0.
func (p Proficiency) Level() float64 {
	switch Proficiency(strings.ToLower(strings.TrimSpace(string(p)))) {
	case ProficiencyBeginner:
		return 1
	case ProficiencyIntermediate:
		return 2
	case ProficiencyAdvanced:
		return 3
	case ProficiencyExpert:
		return 4
	default:
		return 0
	}
}

// Skill is one declared skill.
type Skill struct {
	Name              string      `json:"name"`
	Category          Category    `json:"category,omitempty"`
	Proficiency       Proficiency `json:"proficiency,omitempty"`
	YearsOfExperience float64     `json:"yearsOfExperience,omitempty"`
}

// NormalizeSkill canonicalizes a skill name for comparison.
func NormalizeSkill(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SkillSet is a set of normalized skill names.
type SkillSet map[string]struct{}

// NewSkillSet builds a set from raw names, dropping blanks.
func NewSkillSet(names ...string) SkillSet {
	s := make(SkillSet, len(names))
	for _, n := range names {
		if k := NormalizeSkill(n); k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

// Has reports whether name is in the set.
func (s SkillSet) Has(name string) bool {
	_, ok := s[NormalizeSkill(name)]
	return ok
}

// Sorted returns the members in ascending order.
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Coverage counts how many team members hold each normalized skill.
type Coverage map[string]int

// NewCoverage counts skills; repeated names add holders.
func NewCoverage(names ...string) Coverage {
	c := make(Coverage, len(names))
	for _, n := range names {
		if k := NormalizeSkill(n); k != "" {
			c[k]++
		}
	}
	return c
}

// Holders returns the number of members holding name.
func (c Coverage) Holders(name string) int {
	return c[NormalizeSkill(name)]
}

// Covers reports whether at least one member holds name.
func (c Coverage) Covers(name string) bool {
	return c.Holders(name) > 0
}
