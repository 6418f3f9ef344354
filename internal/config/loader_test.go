package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/bestxi/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the shortlist defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.TopBatsmen, convey.ShouldEqual, 4)
			convey.So(cfg.TopBowlers, convey.ShouldEqual, 4)
			convey.So(cfg.TopAllRounders, convey.ShouldEqual, 3)
			convey.So(cfg.DismissalRule, convey.ShouldEqual, config.DismissalPlayerDismissed)
			convey.So(cfg.StrictSchema, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("BESTXI_ADDR", ":8080")
			t.Setenv("BESTXI_TOP_BATSMEN", "6")
			t.Setenv("BESTXI_DISMISSAL_RULE", "is_wicket")
			t.Setenv("BESTXI_STRICT_SCHEMA", "true")
			t.Setenv("BESTXI_RATE_LIMIT_RPS", "2.5")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TopBatsmen, convey.ShouldEqual, 6)
				convey.So(cfg.TopBowlers, convey.ShouldEqual, 4)
				convey.So(cfg.DismissalRule, convey.ShouldEqual, config.DismissalIsWicket)
				convey.So(cfg.StrictSchema, convey.ShouldBeTrue)
				convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 2.5)
			})
		})

		convey.Convey("When loading config with a YAML file and env overrides", func() {
			path := writeConfigFile(t, `
# shortlist sizes
addr: ":9090"
top_bowlers: 5
top_all_rounders: 2
max_upload_bytes: 1048576
`)
			t.Setenv("BESTXI_CONFIG", path)
			t.Setenv("BESTXI_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env wins over file and file wins over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.TopBowlers, convey.ShouldEqual, 5)
				convey.So(cfg.TopAllRounders, convey.ShouldEqual, 2)
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 1048576)
				convey.So(cfg.TopBatsmen, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			t.Setenv("BESTXI_CONFIG", writeConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			t.Setenv("BESTXI_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			t.Setenv("BESTXI_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When loading config with an unknown dismissal rule", func() {
			t.Setenv("BESTXI_DISMISSAL_RULE", "caught")

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation lists the accepted rules", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "dismissalrule must be one of [player_dismissed is_wicket]")
			})
		})

		convey.Convey("When loading config with a zero shortlist size", func() {
			t.Setenv("BESTXI_TOP_ALL_ROUNDERS", "0")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			t.Setenv("BESTXI_TOP_BATSMEN", "four")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bestxi.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BESTXI_CONFIG", "BESTXI_ADDR", "BESTXI_LOG_LEVEL", "BESTXI_LOG_JSON",
		"BESTXI_MAX_UPLOAD_BYTES", "BESTXI_TOP_BATSMEN", "BESTXI_TOP_BOWLERS",
		"BESTXI_TOP_ALL_ROUNDERS", "BESTXI_DISMISSAL_RULE", "BESTXI_STRICT_SCHEMA",
		"BESTXI_RATE_LIMIT_RPS", "BESTXI_RATE_LIMIT_BURST",
	} {
		_ = os.Unsetenv(key)
	}
}
