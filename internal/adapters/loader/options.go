package loader

import "github.com/okian/bestxi/pkg/logger"

// Option applies a configuration option to the CSVLoader.
type Option func(*CSVLoader)

// WithLogger sets the logger used by the loader.
func WithLogger(l logger.Logger) Option {
	return func(c *CSVLoader) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithComma sets the field delimiter. The default is ','.
func WithComma(r rune) Option {
	return func(c *CSVLoader) {
		if r != 0 {
			c.comma = r
		}
	}
}
