package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	service "github.com/okian/takathon/internal/app"
	"github.com/okian/takathon/internal/domain/eligibility"
	"github.com/okian/takathon/internal/domain/matching"
	"github.com/okian/takathon/internal/domain/model"
	"github.com/okian/takathon/internal/domain/scoring"
	"github.com/okian/takathon/internal/domain/types"
	"github.com/okian/takathon/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func hackathonPool(n int) []model.Participant {
	skills := []string{"backend", "design", "devops", "data", "mobile", "frontend"}
	roles := []model.Role{model.RoleBackend, model.RoleDesign, model.RoleDevOps, model.RoleDataScience, model.RoleMobile, model.RoleFrontend}
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	out := make([]model.Participant, 0, n)
	for i := 0; i < n; i++ {
		p := registered(fmt.Sprintf("p%03d", i), roles[i%len(roles)], skills[i%len(skills)], skills[(i/2)%len(skills)])
		p.Skills[0].Proficiency = model.ProficiencyIntermediate
		p.Availability = []model.Window{{Start: base.Add(time.Duration(i%8) * time.Hour), End: base.Add(time.Duration(i%8+4) * time.Hour)}}
		out = append(out, p)
	}
	return out
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a started service with a configured engine", t, func() {
		strategy := scoring.NewWeighted(
			scoring.WithCriticalSkills("backend"),
			scoring.WithWeights(scoring.Weights{Skill: 0.4, Experience: 0.1, Availability: 0.3, Role: 0.2}),
		)
		engine := matching.New(
			matching.WithStrategy(strategy),
			matching.WithValidator(eligibility.New(eligibility.WithMinCompleteness(0.75))),
		)
		svc := service.New(service.WithEngine(engine), service.WithMetricsInterval(10*time.Millisecond))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		req := types.RecommendRequest{
			Team: model.Team{
				ID:           teamUUID,
				HackathonID:  "h1",
				MemberIDs:    []string{"p000"},
				Skills:       []model.Skill{{Name: "frontend", Proficiency: model.ProficiencyIntermediate}},
				Roles:        []model.Role{model.RoleFrontend},
				NeededRoles:  []model.Role{model.RoleBackend},
				Availability: []model.Window{{Start: base, End: base.Add(6 * time.Hour)}},
			},
			Candidates: hackathonPool(60),
			Limit:      10,
		}

		Convey("When many requests run concurrently", func() {
			want, err := svc.Recommend(ctx, req)
			So(err, ShouldBeNil)

			var wg sync.WaitGroup
			got := make([]types.RecommendResponse, 16)
			errs := make([]error, 16)
			for i := range got {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					got[i], errs[i] = svc.Recommend(ctx, req)
				}(i)
			}
			wg.Wait()

			Convey("Then every response should be identical", func() {
				for i := range got {
					So(errs[i], ShouldBeNil)
					So(got[i], ShouldResemble, want)
				}
				So(svc.GetStats().Requests, ShouldEqual, 17)
			})

			Convey("And results should be ranked, bounded and exclude members", func() {
				So(want.Suggestions, ShouldHaveLength, 10)
				for i, s := range want.Suggestions {
					So(s.CandidateID, ShouldNotEqual, "p000")
					So(s.Score, ShouldBeBetweenOrEqual, 0, 1)
					if i > 0 {
						So(s.Score, ShouldBeLessThanOrEqualTo, want.Suggestions[i-1].Score+1e-9)
					}
				}
				So(want.Excluded, ShouldEqual, 1)
			})

			Convey("And recommendations should be recorded as metrics", func() {
				So(recommendationsTotal(scoring.StrategyWeighted), ShouldBeGreaterThanOrEqualTo, 17)
			})
		})
	})
}

// recommendationsTotal reads the global recommendations counter for strategy.
func recommendationsTotal(strategy string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return 0
	}
	for _, mf := range families {
		if mf.GetName() != "takathon_matching_recommendations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "strategy" && l.GetValue() == strategy {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
