package tui

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits a JSON object keyed by input id.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes the walker applies when printing
// messages.
type Theme struct {
	StagePrefix string
	ErrorPrefix string
}

const defaultMaxAttempts = 3

// Option configures the Walker.
type Option func(*Walker)

// WithPromptDriver overrides the prompt driver used by the walker.
func WithPromptDriver(driver PromptDriver) Option {
	return func(w *Walker) {
		if driver != nil {
			w.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(w *Walker) {
		if format != "" {
			w.format = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(w *Walker) {
		w.theme = theme
	}
}

// WithMaxAttempts bounds how often one field is re-asked.
func WithMaxAttempts(n int) Option {
	return func(w *Walker) {
		if n > 0 {
			w.maxAttempts = n
		}
	}
}
