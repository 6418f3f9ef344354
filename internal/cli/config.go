package cli

import (
	"time"

	appconfig "github.com/okian/bestxi/internal/config"
)

// Config holds one analyze invocation's settings.
type Config struct {
	DeliveriesPath string        // deliveries CSV path; empty means not supplied
	MatchesPath    string        // matches CSV path; empty means not supplied
	Format         string        // text, csv, json or yaml
	Sample         bool          // analyze a generated season instead of files
	Seed           uint64        // sample seed
	SampleMatches  int           // sample season length
	SaveSampleDir  string        // directory to write the generated CSVs to
	BaseURL        string        // upload to this server instead of analyzing locally
	Timeout        time.Duration // HTTP request timeout
	TopBatsmen     int
	TopBowlers     int
	TopAllRounders int
	DismissalRule  string
	StrictSchema   bool
	LogFile        string // optional log file; logs always go to stderr
	Verbose        bool
}

// Validate checks the ranking settings with the same rules the server config
// uses. Errors wrap config.ErrInvalidConfig.
func (c *Config) Validate() error {
	settings := appconfig.New()
	settings.TopBatsmen = c.TopBatsmen
	settings.TopBowlers = c.TopBowlers
	settings.TopAllRounders = c.TopAllRounders
	settings.DismissalRule = c.DismissalRule
	settings.StrictSchema = c.StrictSchema
	return settings.Validate()
}
