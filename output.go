package regexhl

import "io"

// Render returns the result coloured for a terminal. The colour profile
// is detected from w unless WithColorProfile is given.
func (r *Result) Render(w io.Writer, opts ...Option) string {
	options := applyOptions(opts...)
	term := options.Config.terminal(w)
	if options.hasProfile {
		term.SetColorProfile(options.profile)
	}
	return term.Render(r.Text, r.Segments)
}

// EncodePNG writes the result to w as a PNG image.
func (r *Result) EncodePNG(w io.Writer, opts ...Option) error {
	options := applyOptions(opts...)
	return options.Config.image().EncodePNG(w, r.Text, r.Segments)
}

// Spans returns the UTF-16 spans of the result.
func (r *Result) Spans(opts ...Option) []Span {
	options := applyOptions(opts...)
	return UTF16Spans(r.Text, r.Segments, options.Config)
}
