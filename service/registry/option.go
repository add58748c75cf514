package registry

// DefaultMaxEntries is default per slot log retention
const DefaultMaxEntries = 10000

type config struct {
	maxEntries int
}

// Option represents registry option
type Option func(c *config)

// WithMaxEntries sets per slot log retention cap, 0 disables retention
func WithMaxEntries(maxEntries int) Option {
	return func(c *config) {
		if maxEntries >= 0 {
			c.maxEntries = maxEntries
		}
	}
}
