package parser

import "fmt"

// ParseError is a recoverable grammar error tied to a line in a single
// file. The parser resynchronizes by skipping to the start of the
// next recognized directive (spec.md §4.1), so one malformed line
// never prevents the rest of the file from loading.
type ParseError struct {
	Filename string
	Line     int
	Column   int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Message)
}

// NewParseError wraps an arbitrary I/O or parse failure that prevents
// a file from being read at all, making it a fatal error per spec.md
// §7 rather than a recoverable ParseError.
func NewParseError(filename string, err error) error {
	return fmt.Errorf("%s: %w", filename, err)
}
