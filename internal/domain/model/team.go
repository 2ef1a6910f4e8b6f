package model

// Team is a snapshot of a forming team. Matching reads it and never changes it.
type Team struct {
	ID          string   `json:"teamId"`
	HackathonID string   `json:"hackathonId"`
	MemberIDs   []string `json:"memberIds,omitempty"`
	// Skills is the flattened list of member skills; a name repeated by several
	// members counts once per holder.
	Skills            []Skill  `json:"teamSkills"`
	AverageExperience float64  `json:"averageExperience,omitempty"`
	Roles             []Role   `json:"roles,omitempty"`
	NeededRoles       []Role   `json:"neededRoles,omitempty"`
	Availability      []Window `json:"availability,omitempty"`
	MinSize           int      `json:"minSize,omitempty"`
	MaxSize           int      `json:"maxSize,omitempty"`
	CurrentSize       int      `json:"currentSize,omitempty"`
}

// Coverage counts holders per skill.
func (t Team) Coverage() Coverage {
	c := make(Coverage, len(t.Skills))
	for _, s := range t.Skills {
		if k := NormalizeSkill(s.Name); k != "" {
			c[k]++
		}
	}
	return c
}

// Categories returns the set of skill categories the team already touches.
func (t Team) Categories() map[Category]struct{} {
	out := make(map[Category]struct{}, len(t.Skills))
	for _, s := range t.Skills {
		if s.Category != "" {
			out[s.Category] = struct{}{}
		}
	}
	return out
}

// RoleCoverage counts members per normalized role.
func (t Team) RoleCoverage() map[Role]int {
	out := make(map[Role]int, len(t.Roles))
	for _, r := range t.Roles {
		if n := NormalizeRole(r); n != "" {
			out[n]++
		}
	}
	return out
}

// Needed returns the normalized open roles.
func (t Team) Needed() []Role {
	out := make([]Role, 0, len(t.NeededRoles))
	for _, r := range t.NeededRoles {
		if n := NormalizeRole(r); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ExperienceReference returns the team's average experience. When no explicit
// average is set it is derived from member skill proficiencies. ok is false when
// the team offers no reference at all (e.g. no members yet).
func (t Team) ExperienceReference() (avg float64, ok bool) {
	if t.AverageExperience > 0 && finite(t.AverageExperience) {
		return t.AverageExperience, true
	}
	if m := meanProficiency(t.Skills); m > 0 {
		return m, true
	}
	return 0, false
}

// Size returns the current member count.
func (t Team) Size() int {
	if t.CurrentSize > 0 {
		return t.CurrentSize
	}
	return len(t.MemberIDs)
}

// IsMember reports whether participantID is already on the team.
func (t Team) IsMember(participantID string) bool {
	for _, id := range t.MemberIDs {
		if id == participantID {
			return true
		}
	}
	return false
}

// OpenSpots returns remaining capacity. bounded is false when no max size is configured.
func (t Team) OpenSpots() (spots int, bounded bool) {
	if t.MaxSize <= 0 {
		return 0, false
	}
	if s := t.MaxSize - t.Size(); s > 0 {
		return s, true
	}
	return 0, true
}
