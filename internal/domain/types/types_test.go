package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/takathon/internal/domain/matching"
	"github.com/okian/takathon/internal/domain/model"
	"github.com/okian/takathon/internal/domain/scoring"
	types "github.com/okian/takathon/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewSuggestions(t *testing.T) {
	Convey("Given ranked recommendations", t, func() {
		recs := []matching.Recommendation{
			{
				Participant: model.Participant{
					ID:       "u1",
					Username: "ada",
					Skills:   []model.Skill{{Name: "Go", Proficiency: model.ProficiencyExpert}},
				},
				Score:               0.8,
				Breakdown:           scoring.Breakdown{Skill: 0.5, Experience: 1, Availability: 1, Role: 1},
				ComplementarySkills: []string{"go"},
				Reasons:             []string{"Brings 1 complementary skill(s)"},
			},
			{Participant: model.Participant{ID: "u2"}, Score: 0.6},
		}

		Convey("When converting to suggestions", func() {
			out := types.NewSuggestions(recs)

			Convey("Then ranks should be 1-based and order preserved", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Rank, ShouldEqual, 1)
				So(out[0].CandidateID, ShouldEqual, "u1")
				So(out[1].Rank, ShouldEqual, 2)
				So(out[1].CandidateID, ShouldEqual, "u2")
			})

			Convey("And skills should be summarized", func() {
				So(out[0].Skills, ShouldResemble, []types.SkillView{{Name: "Go", Proficiency: model.ProficiencyExpert}})
			})

			Convey("And empty explanations should encode as empty arrays", func() {
				raw, err := json.Marshal(out[1])
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"reasons":[]`)
				So(string(raw), ShouldContainSubstring, `"commonSkills":[]`)
				So(string(raw), ShouldContainSubstring, `"candidateId":"u2"`)
			})
		})

		Convey("When converting an empty list", func() {
			out := types.NewSuggestions(nil)

			Convey("Then it should be empty but not nil", func() {
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})
	})
}

func TestRecommendRequestDecoding(t *testing.T) {
	Convey("Given a gateway-style payload", t, func() {
		payload := `{
			"team": {"teamId": "t1", "hackathonId": "h1"},
			"teamSkills": [{"name": "React", "category": "frontend", "proficiency": "advanced"}],
			"candidates": [{"userId": "u1", "username": "ada", "skills": [{"name": "Go"}]}],
			"openSpots": 2,
			"limit": 3
		}`

		Convey("When decoding", func() {
			var req types.RecommendRequest
			err := json.Unmarshal([]byte(payload), &req)

			Convey("Then every field should be populated", func() {
				So(err, ShouldBeNil)
				So(req.Team.ID, ShouldEqual, "t1")
				So(req.TeamSkills, ShouldHaveLength, 1)
				So(req.TeamSkills[0].Proficiency, ShouldEqual, model.ProficiencyAdvanced)
				So(req.Candidates[0].ID, ShouldEqual, "u1")
				So(*req.OpenSpots, ShouldEqual, 2)
				So(req.Limit, ShouldEqual, 3)
			})
		})
	})
}
