package tui

import "github.com/rs/zerolog"

// Theme holds the prefixes printed in front of driver messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures a Filler.
type Option func(*Filler)

// WithDriver overrides the prompt driver. The default prompts on the process
// terminal.
func WithDriver(driver Driver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithAttempts bounds how many times a failing submission is asked again.
// Values below one are ignored.
func WithAttempts(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.attempts = n
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Filler) {
		f.logger = logger
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(f *Filler) {
		f.theme = theme
	}
}
