package regexhl

import "github.com/muesli/termenv"

// HighlightOptions holds options for highlighting and session processing.
type HighlightOptions struct {
	Config *RenderConfig
	// Engine 覆盖 Config.Engine
	Engine Engine
	// Limit 覆盖 Config.Limit
	Limit  int
	Images bool

	profile    termenv.Profile
	hasProfile bool
}

// Option is a function that configures HighlightOptions.
type Option func(*HighlightOptions)

// WithConfig sets a custom RenderConfig.
func WithConfig(config *RenderConfig) Option {
	return func(opts *HighlightOptions) {
		if config != nil {
			opts.Config = config
		}
	}
}

// WithEngine selects the regex engine.
func WithEngine(engine Engine) Option {
	return func(opts *HighlightOptions) {
		opts.Engine = engine
	}
}

// WithLimit caps the number of occurrences collected per text.
func WithLimit(n int) Option {
	return func(opts *HighlightOptions) {
		opts.Limit = n
	}
}

// WithImages makes ProcessSession render a PNG for every sample.
func WithImages(enable bool) Option {
	return func(opts *HighlightOptions) {
		opts.Images = enable
	}
}

// WithColorProfile fixes the terminal colour profile instead of detecting
// it from stdout. termenv.Ascii disables colour.
func WithColorProfile(p termenv.Profile) Option {
	return func(opts *HighlightOptions) {
		opts.profile = p
		opts.hasProfile = true
	}
}

// defaultHighlightOptions returns the default options.
func defaultHighlightOptions() *HighlightOptions {
	return &HighlightOptions{
		Config: DefaultConfig(),
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *HighlightOptions {
	options := defaultHighlightOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
