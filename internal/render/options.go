package render

// Option configures a Renderer.
type Option func(*Renderer)

// WithLimits sets the caps used in table titles.
func WithLimits(batsmen, bowlers, allRounders int) Option {
	return func(r *Renderer) {
		if batsmen > 0 {
			r.batsmen = batsmen
		}
		if bowlers > 0 {
			r.bowlers = bowlers
		}
		if allRounders > 0 {
			r.allRounders = allRounders
		}
	}
}

// WithSummary toggles the upload summary line in text output.
func WithSummary(enabled bool) Option {
	return func(r *Renderer) {
		r.summary = enabled
	}
}
