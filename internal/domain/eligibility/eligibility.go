// Package eligibility decides which participants may be matched and whether a
// team size fits hackathon bounds.
package eligibility

import (
	"math"
	"strings"

	"github.com/okian/takathon/internal/domain/model"
)

// DefaultMinTeamSize is the smallest team a hackathon accepts unless configured otherwise.
const DefaultMinTeamSize = 2

// Default profile requirements.
const (
	defaultMinCompleteness = 0.5
	profileFieldCount      = 4
)

// Field names a profile component that completeness is measured over.
type Field string

// Profile fields.
const (
	FieldSkills       Field = "skills"
	FieldRole         Field = "role"
	FieldAvailability Field = "availability"
	FieldExperience   Field = "experience"
)

// Reason explains why a participant was excluded. Empty means eligible.
type Reason string

// Exclusion reasons.
const (
	ReasonNone            Reason = ""
	ReasonMalformed       Reason = "malformed"
	ReasonNotRegistered   Reason = "not_registered"
	ReasonWithdrawn       Reason = "withdrawn"
	ReasonAssigned        Reason = "assigned"
	ReasonMissingField    Reason = "missing_field"
	ReasonIncomplete      Reason = "incomplete_profile"
	ReasonAlreadyOnTeam   Reason = "already_on_team"
	ReasonDuplicateRecord Reason = "duplicate"
)

// Validator checks participant eligibility. The zero value is not usable; build with New.
type Validator struct {
	minCompleteness float64
	required        []Field
}

// Option applies a configuration option to the Validator.
type Option func(*Validator)

// WithMinCompleteness sets the fraction of profile fields that must be filled.
// Values outside [0,1] are ignored.
func WithMinCompleteness(f float64) Option {
	return func(v *Validator) {
		if f >= 0 && f <= 1 {
			v.minCompleteness = f
		}
	}
}

// WithRequiredFields replaces the set of fields that must always be present.
func WithRequiredFields(fields ...Field) Option {
	return func(v *Validator) {
		v.required = append([]Field(nil), fields...)
	}
}

// New creates a Validator requiring skills and a role and half the profile filled.
func New(opts ...Option) *Validator {
	v := &Validator{
		minCompleteness: defaultMinCompleteness,
		required:        []Field{FieldSkills, FieldRole},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// defaultValidator backs the package-level IsEligible.
var defaultValidator = New() //nolint:gochecknoglobals // immutable default

// IsEligible reports whether p can be matched for hackathonID with default requirements.
func IsEligible(p model.Participant, hackathonID string) bool {
	return defaultValidator.IsEligible(p, hackathonID)
}

// IsEligible reports whether p can be matched for hackathonID.
func (v *Validator) IsEligible(p model.Participant, hackathonID string) bool {
	return v.Check(p, hackathonID) == ReasonNone
}

// Check returns the first reason p is ineligible, or ReasonNone.
// Missing or malformed data is an exclusion, never an error.
func (v *Validator) Check(p model.Participant, hackathonID string) Reason {
	hackathonID = strings.TrimSpace(hackathonID)
	if strings.TrimSpace(p.ID) == "" || hackathonID == "" {
		return ReasonMalformed
	}
	if math.IsNaN(p.Experience) || math.IsInf(p.Experience, 0) || p.Experience < 0 {
		return ReasonMalformed
	}
	if strings.TrimSpace(p.HackathonID) != hackathonID {
		return ReasonNotRegistered
	}
	switch p.Status {
	case model.StatusRegistered, "":
	case model.StatusWithdrawn:
		return ReasonWithdrawn
	case model.StatusInTeam:
		return ReasonAssigned
	default:
		return ReasonMalformed
	}
	if p.Assigned() {
		return ReasonAssigned
	}
	for _, f := range v.required {
		if !hasField(p, f) {
			return ReasonMissingField
		}
	}
	if Completeness(p) < v.minCompleteness {
		return ReasonIncomplete
	}
	return ReasonNone
}

// Completeness returns the fraction of profile fields that are filled.
func Completeness(p model.Participant) float64 {
	filled := 0
	for _, f := range []Field{FieldSkills, FieldRole, FieldAvailability, FieldExperience} {
		if hasField(p, f) {
			filled++
		}
	}
	return float64(filled) / profileFieldCount
}

func hasField(p model.Participant, f Field) bool {
	switch f {
	case FieldSkills:
		return len(p.SkillSet()) > 0
	case FieldRole:
		return p.Role() != ""
	case FieldAvailability:
		for _, w := range p.Availability {
			if w.Valid() {
				return true
			}
		}
		return false
	case FieldExperience:
		return p.ExperienceLevel() > 0
	default:
		return false
	}
}

// IsValidTeamSize reports whether minSize <= current <= maxSize.
// A configuration with maxSize < minSize never validates.
func IsValidTeamSize(current, maxSize, minSize int) bool {
	if maxSize < minSize {
		return false
	}
	return minSize <= current && current <= maxSize
}

// HasOpenSpot reports whether a team of size current can take another member.
// maxSize <= 0 means the team is unbounded.
func HasOpenSpot(current, maxSize int) bool {
	if maxSize <= 0 {
		return true
	}
	return current < maxSize
}
