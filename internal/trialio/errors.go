package trialio

import "fmt"

// ParseError reports a malformed row or field in a trial file.
type ParseError struct {
	File   string
	Line   int // 1-based line in the file
	Column int // 0-based column, -1 when the whole row is at fault
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column < 0 {
		return fmt.Sprintf("parse %s line %d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s line %d column %d: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
