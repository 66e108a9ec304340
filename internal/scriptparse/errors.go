package scriptparse

import "fmt"

// ParseError is returned for any syntactic problem (§4.1 "Failure"); the
// message always includes a short quotation of the offending fragment.
type ParseError struct {
	Message  string
	Fragment string
	Pos      int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q", e.Message, e.Fragment)
}

func newParseErr(src string, pos int, msg string) *ParseError {
	end := pos + 24
	if end > len(src) {
		end = len(src)
	}
	if pos > len(src) {
		pos = len(src)
	}
	frag := src[pos:end]
	return &ParseError{Message: msg, Fragment: frag, Pos: pos}
}
