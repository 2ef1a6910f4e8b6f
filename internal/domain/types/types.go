// Package types contains the wire types shared by the HTTP API and the CLI.
package types

import (
	"github.com/okian/takathon/internal/domain/matching"
	"github.com/okian/takathon/internal/domain/model"
	"github.com/okian/takathon/internal/domain/scoring"
)

// RecommendRequest asks for teammate suggestions for one team.
//
// TeamSkills and OpenSpots mirror the gateway payload: TeamSkills is used when
// Team.Skills is empty and OpenSpots bounds the team when Team.MaxSize is unset.
type RecommendRequest struct {
	Team       model.Team          `json:"team"`
	TeamSkills []model.Skill       `json:"teamSkills,omitempty"`
	Candidates []model.Participant `json:"candidates"`
	OpenSpots  *int                `json:"openSpots,omitempty"`
	Limit      int                 `json:"limit,omitempty"`
}

// SkillView is the short skill form shown with a suggestion.
type SkillView struct {
	Name        string            `json:"name"`
	Proficiency model.Proficiency `json:"proficiency,omitempty"`
}

// Suggestion is one ranked candidate on the wire.
type Suggestion struct {
	Rank                int               `json:"rank"`
	CandidateID         string            `json:"candidateId"`
	Username            string            `json:"username,omitempty"`
	FullName            string            `json:"fullName,omitempty"`
	AvatarURL           string            `json:"avatarUrl,omitempty"`
	Score               float64           `json:"score"`
	Breakdown           scoring.Breakdown `json:"breakdown"`
	Reasons             []string          `json:"reasons"`
	ComplementarySkills []string          `json:"complementarySkills"`
	CommonSkills        []string          `json:"commonSkills"`
	Skills              []SkillView       `json:"skills"`
}

// NewSuggestion converts a ranked recommendation. rank is 1-based.
func NewSuggestion(rank int, r matching.Recommendation) Suggestion {
	skills := make([]SkillView, 0, len(r.Participant.Skills))
	for _, s := range r.Participant.Skills {
		skills = append(skills, SkillView{Name: s.Name, Proficiency: s.Proficiency})
	}
	return Suggestion{
		Rank:                rank,
		CandidateID:         r.Participant.ID,
		Username:            r.Participant.Username,
		FullName:            r.Participant.FullName,
		AvatarURL:           r.Participant.AvatarURL,
		Score:               r.Score,
		Breakdown:           r.Breakdown,
		Reasons:             nonNil(r.Reasons),
		ComplementarySkills: nonNil(r.ComplementarySkills),
		CommonSkills:        nonNil(r.CommonSkills),
		Skills:              skills,
	}
}

// NewSuggestions converts a ranked list, preserving order.
func NewSuggestions(recs []matching.Recommendation) []Suggestion {
	out := make([]Suggestion, len(recs))
	for i, r := range recs {
		out[i] = NewSuggestion(i+1, r)
	}
	return out
}

// RecommendResponse is the result of a recommendation request.
type RecommendResponse struct {
	TeamID        string       `json:"teamId,omitempty"`
	Suggestions   []Suggestion `json:"suggestions"`
	Strategy      string       `json:"strategy"`
	OpenSpots     int          `json:"openSpots"`
	TeamSizeValid bool         `json:"teamSizeValid"`
	Considered    int          `json:"considered"`
	Excluded      int          `json:"excluded"`
	Message       string       `json:"message,omitempty"`
}

// Stats summarizes service activity since start.
type Stats struct {
	Strategy        string  `json:"strategy"`
	Requests        uint64  `json:"requests"`
	Rejected        uint64  `json:"rejected"`
	Suggestions     uint64  `json:"suggestions"`
	EmptyResults    uint64  `json:"emptyResults"`
	UptimeSeconds   float64 `json:"uptimeSeconds"`
	DefaultLimit    int     `json:"defaultLimit"`
	MaxLimit        int     `json:"maxLimit"`
	MinTeamSize     int     `json:"minTeamSize"`
	MaxTeamSize     int     `json:"maxTeamSize"`
	StrictIDs       bool    `json:"strictIds"`
	MinCompleteness float64 `json:"minCompleteness"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
