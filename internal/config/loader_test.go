package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/takathon/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TAKATHON_ADDR", ":8080")
			_ = os.Setenv("TAKATHON_STRICT_IDS", "true")
			_ = os.Setenv("TAKATHON_SHUTDOWN_TIMEOUT", "3s")
			_ = os.Setenv("TAKATHON_MATCHING__STRATEGY", "basic")
			_ = os.Setenv("TAKATHON_MATCHING__MAX_LIMIT", "20")
			_ = os.Setenv("TAKATHON_MATCHING__WEIGHTS__SKILL", "0.7")
			_ = os.Setenv("TAKATHON_MATCHING__WEIGHTS__ROLE", "0")
			_ = os.Setenv("TAKATHON_MATCHING__WEIGHTS__EXPERIENCE", "0.1")
			_ = os.Setenv("TAKATHON_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StrictIDs, convey.ShouldBeTrue)
				convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 3*time.Second)
				convey.So(cfg.Matching.Strategy, convey.ShouldEqual, "basic")
				convey.So(cfg.Matching.MaxLimit, convey.ShouldEqual, 20)
				convey.So(cfg.Matching.Weights.Skill, convey.ShouldEqual, 0.7)
				convey.So(cfg.Matching.Weights.Availability, convey.ShouldEqual, 0.2)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
matching:
  default_limit: 3
  critical_skills:
    backend: 2
eligibility:
  min_completeness: 0.75
  required_fields: [skills]
team:
  max_size: 6
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TAKATHON_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.Matching.DefaultLimit, convey.ShouldEqual, 3)
				convey.So(cfg.Matching.MaxLimit, convey.ShouldEqual, 100)
				convey.So(cfg.Matching.CriticalSkills, convey.ShouldResemble, map[string]int{"backend": 2})
				convey.So(cfg.Eligibility.MinCompleteness, convey.ShouldEqual, 0.75)
				convey.So(cfg.Eligibility.RequiredFields, convey.ShouldResemble, []string{"skills"})
				convey.So(cfg.Team.MinSize, convey.ShouldEqual, 2)
				convey.So(cfg.Team.MaxSize, convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When an explicit path and env vars are both given", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nmatching:\n  default_limit: 7\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TAKATHON_CONFIG", "/non/existent/file.yaml")
			_ = os.Setenv("TAKATHON_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then the path should win and env should override the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Matching.DefaultLimit, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("TAKATHON_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When weights do not sum to one", func() {
			_ = os.Setenv("TAKATHON_MATCHING__WEIGHTS__SKILL", "0.9")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "sum to 1")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("TAKATHON_MATCHING__MAX_LIMIT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is already canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			cfg, err := config.Load(cctx, "")

			convey.Convey("Then it should return the context error", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"TAKATHON_CONFIG",
		"TAKATHON_ADDR",
		"TAKATHON_STRICT_IDS",
		"TAKATHON_SHUTDOWN_TIMEOUT",
		"TAKATHON_CORS_ALLOWED_ORIGINS",
		"TAKATHON_MATCHING__STRATEGY",
		"TAKATHON_MATCHING__MAX_LIMIT",
		"TAKATHON_MATCHING__WEIGHTS__SKILL",
		"TAKATHON_MATCHING__WEIGHTS__ROLE",
		"TAKATHON_MATCHING__WEIGHTS__EXPERIENCE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "takathon-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
