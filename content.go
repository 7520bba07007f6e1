package regexhl

// ContentType represents the type of content.
type ContentType int

const (
	// ContentTypeText represents a highlighted text sample.
	ContentTypeText ContentType = iota
	// ContentTypePhoto represents a rendered PNG of a sample.
	ContentTypePhoto
	// ContentTypeError represents a case whose pattern failed to compile.
	ContentTypeError
)

// String returns the string representation of ContentType.
func (ct ContentType) String() string {
	switch ct {
	case ContentTypeText:
		return "text"
	case ContentTypePhoto:
		return "photo"
	case ContentTypeError:
		return "error"
	default:
		return "unknown"
	}
}

// ContentTrace tracks the source and metadata of content.
type ContentTrace struct {
	Case    string
	Pattern string
	Extra   map[string]interface{}
}

// Content represents one output item of a session.
type Content interface {
	GetContentType() ContentType
	GetContentTrace() ContentTrace
}

// Text represents a highlighted sample.
type Text struct {
	Sample   string
	Rendered string
	Segments []Segment
	Spans    []Span
	// Err 非空时表示该样本未能着色（匹配或嵌套校验失败）
	Err          error
	ContentTrace ContentTrace
}

// GetContentType returns ContentTypeText.
func (t *Text) GetContentType() ContentType {
	return ContentTypeText
}

// GetContentTrace returns the content trace.
func (t *Text) GetContentTrace() ContentTrace {
	return t.ContentTrace
}

// Photo represents a PNG rendering of a sample.
type Photo struct {
	FileName     string
	FileData     []byte
	Caption      string
	ContentTrace ContentTrace
}

// GetContentType returns ContentTypePhoto.
func (p *Photo) GetContentType() ContentType {
	return ContentTypePhoto
}

// GetContentTrace returns the content trace.
func (p *Photo) GetContentTrace() ContentTrace {
	return p.ContentTrace
}

// PatternError represents a case whose pattern is invalid.
type PatternError struct {
	Err          error
	ContentTrace ContentTrace
}

// GetContentType returns ContentTypeError.
func (e *PatternError) GetContentType() ContentType {
	return ContentTypeError
}

// GetContentTrace returns the content trace.
func (e *PatternError) GetContentTrace() ContentTrace {
	return e.ContentTrace
}

func (e *PatternError) Error() string {
	return e.ContentTrace.Case + ": " + e.Err.Error()
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
