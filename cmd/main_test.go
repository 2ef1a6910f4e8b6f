package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/takathon/internal/config"
	"github.com/okian/takathon/internal/domain/scoring"
	"github.com/okian/takathon/internal/domain/types"
)

const sampleRequest = `{
  "team": {"teamId": "t1", "hackathonId": "h1", "memberIds": ["m1"], "teamSkills": [{"name": "frontend"}]},
  "candidates": [
    {"userId": "B", "status": "registered", "preferredRole": "frontend", "skills": [{"name": "frontend"}]},
    {"userId": "A", "status": "registered", "preferredRole": "backend", "skills": [{"name": "backend"}]},
    {"userId": "C", "status": "registered", "preferredRole": "design", "skills": [{"name": "design"}]}
  ]
}`

func runRoot(args ...string) (string, error) {
	root := newRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		convey.Convey("When running version", func() {
			out, err := runRoot("version")

			convey.Convey("Then it should print the build version", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(strings.TrimSpace(out), convey.ShouldEqual, version)
			})
		})

		convey.Convey("When listing subcommands", func() {
			root := newRootCmd()
			names := make([]string, 0, len(root.Commands()))
			for _, c := range root.Commands() {
				names = append(names, c.Name())
			}

			convey.Convey("Then serve, recommend and version should be present", func() {
				convey.So(names, convey.ShouldContain, "serve")
				convey.So(names, convey.ShouldContain, "recommend")
				convey.So(names, convey.ShouldContain, "version")
			})
		})
	})
}

func TestRecommendCommand(t *testing.T) {
	convey.Convey("Given a request file", t, func() {
		_ = os.Unsetenv(config.EnvConfigPath)
		dir := t.TempDir()
		input := filepath.Join(dir, "request.json")
		convey.So(os.WriteFile(input, []byte(sampleRequest), 0o600), convey.ShouldBeNil)

		convey.Convey("When running recommend with a limit", func() {
			out, err := runRoot("recommend", "--input", input, "--limit", "2")

			convey.Convey("Then it should print ranked suggestions", func() {
				convey.So(err, convey.ShouldBeNil)
				var resp types.RecommendResponse
				convey.So(json.Unmarshal([]byte(out), &resp), convey.ShouldBeNil)
				convey.So(resp.TeamID, convey.ShouldEqual, "t1")
				convey.So(resp.Suggestions, convey.ShouldHaveLength, 2)
				convey.So(resp.Suggestions[0].Rank, convey.ShouldEqual, 1)
				convey.So(resp.Suggestions[0].CandidateID, convey.ShouldNotEqual, "B")
			})
		})

		convey.Convey("When the config file selects the basic strategy", func() {
			cfgPath := filepath.Join(dir, "config.yaml")
			convey.So(os.WriteFile(cfgPath, []byte("matching:\n  strategy: basic\n"), 0o600), convey.ShouldBeNil)
			out, err := runRoot("recommend", "--config", cfgPath, "--input", input)

			convey.Convey("Then the response should name it", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, `"strategy": "basic"`)
			})
		})

		convey.Convey("When the input is not JSON", func() {
			bad := filepath.Join(dir, "bad.json")
			convey.So(os.WriteFile(bad, []byte("{"), 0o600), convey.ShouldBeNil)
			_, err := runRoot("recommend", "--input", bad)

			convey.Convey("Then it should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the input file is missing", func() {
			_, err := runRoot("recommend", "--input", filepath.Join(dir, "missing.json"))

			convey.Convey("Then it should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewEngine(t *testing.T) {
	convey.Convey("Given a default configuration", t, func() {
		cfg := config.New()

		convey.Convey("Then the engine should use the weighted strategy", func() {
			engine, err := newEngine(cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(engine.StrategyName(), convey.ShouldEqual, scoring.StrategyWeighted)
		})

		convey.Convey("And an unknown strategy should be rejected", func() {
			cfg.Matching.Strategy = "neural"
			_, err := newEngine(cfg)
			convey.So(errors.Is(err, scoring.ErrUnknownStrategy), convey.ShouldBeTrue)
		})

		convey.Convey("And an unknown required field should be rejected", func() {
			cfg.Eligibility.RequiredFields = []string{"shoe_size"}
			_, err := newEngine(cfg)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("And the service should report configured bounds", func() {
			cfg.Matching.MaxLimit = 20
			cfg.Team.MaxSize = 6
			svc, err := newService(cfg, nil)
			convey.So(err, convey.ShouldBeNil)
			stats := svc.GetStats()
			convey.So(stats.MaxLimit, convey.ShouldEqual, 20)
			convey.So(stats.MaxTeamSize, convey.ShouldEqual, 6)
		})
	})
}
