package model

import (
	"math"
	"strings"
)

// Role is a participant's preferred position on a team.
type Role string

// Known roles.
const (
	RoleFrontend    Role = "frontend"
	RoleBackend     Role = "backend"
	RoleDesign      Role = "design"
	RolePM          Role = "pm"
	RoleDataScience Role = "data_science"
	RoleMobile      Role = "mobile"
	RoleDevOps      Role = "devops"
)

// NormalizeRole canonicalizes a role; "product_management" folds into pm.
func NormalizeRole(r Role) Role {
	n := Role(strings.ToLower(strings.TrimSpace(string(r))))
	if n == Role(CategoryProductManagement) {
		return RolePM
	}
	return n
}

// ParticipantStatus tracks a participant's registration state in one hackathon.
type ParticipantStatus string

// Participant statuses.
const (
	StatusRegistered ParticipantStatus = "registered"
	StatusInTeam     ParticipantStatus = "in_team"
	StatusWithdrawn  ParticipantStatus = "withdrawn"
)

// Participant is an individual registered for a hackathon. It is read-only to matching.
type Participant struct {
	ID            string            `json:"userId"`
	Username      string            `json:"username,omitempty"`
	FullName      string            `json:"fullName,omitempty"`
	AvatarURL     string            `json:"avatarUrl,omitempty"`
	HackathonID   string            `json:"hackathonId"`
	Status        ParticipantStatus `json:"status"`
	TeamID        string            `json:"teamId,omitempty"`
	Skills        []Skill           `json:"skills"`
	Experience    float64           `json:"experience,omitempty"`
	PreferredRole Role              `json:"preferredRole,omitempty"`
	Availability  []Window          `json:"availability,omitempty"`
}

// Assigned reports whether the participant already belongs to a team.
func (p Participant) Assigned() bool {
	return strings.TrimSpace(p.TeamID) != "" || p.Status == StatusInTeam
}

// SkillSet returns the participant's normalized skill names.
func (p Participant) SkillSet() SkillSet {
	s := make(SkillSet, len(p.Skills))
	for _, sk := range p.Skills {
		if k := NormalizeSkill(sk.Name); k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

// ExperienceLevel returns the declared experience, or the mean proficiency level of
// the participant's skills when none was declared.
func (p Participant) ExperienceLevel() float64 {
	if p.Experience > 0 {
		return p.Experience
	}
	return meanProficiency(p.Skills)
}

// Role returns the normalized preferred role.
func (p Participant) Role() Role {
	return NormalizeRole(p.PreferredRole)
}

// meanProficiency averages the known proficiency levels; 0 when none are known.
func meanProficiency(skills []Skill) float64 {
	var sum float64
	var n int
	for _, s := range skills {
		if l := s.Proficiency.Level(); l > 0 {
			sum += l
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// finite reports whether x is a usable number.
func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
