// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and BESTXI_* env vars.
// - External errors are wrapped with this package's sentinel errors.
package config

// Dismissal rules accepted by DismissalRule.
const (
	DismissalPlayerDismissed = "player_dismissed"
	DismissalIsWicket        = "is_wicket"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// MaxUploadBytes caps the multipart body accepted by POST /analyze.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`

	// TopBatsmen, TopBowlers and TopAllRounders cap each ranked list.
	TopBatsmen     int `koanf:"top_batsmen" validate:"gt=0"`
	TopBowlers     int `koanf:"top_bowlers" validate:"gt=0"`
	TopAllRounders int `koanf:"top_all_rounders" validate:"gt=0"`

	// DismissalRule picks the column that marks a dismissal event.
	DismissalRule string `koanf:"dismissal_rule" validate:"oneof=player_dismissed is_wicket"`

	// StrictSchema additionally requires the is_super_over column.
	StrictSchema bool `koanf:"strict_schema"`

	// RateLimitRPS and RateLimitBurst throttle POST /analyze. RPS 0 disables it.
	RateLimitRPS   float64 `koanf:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"gte=0"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		MaxUploadBytes: 64 << 20,
		TopBatsmen:     4,
		TopBowlers:     4,
		TopAllRounders: 3,
		DismissalRule:  DismissalPlayerDismissed,
		RateLimitRPS:   5,
		RateLimitBurst: 10,
	}
}
