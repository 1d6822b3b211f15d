package vm

import "fmt"

// ParseError reports a malformed command line.
type ParseError struct {
	Module string
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.Module, e.Line, e.Reason, e.Text)
}

// UnknownCommandError reports a line whose leading keyword is not a VM
// command.
type UnknownCommandError struct {
	Module  string
	Line    int
	Keyword string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%s:%d: unknown command %q", e.Module, e.Line, e.Keyword)
}

// SegmentRangeError reports an index outside the addressable range of a
// fixed-size segment.
type SegmentRangeError struct {
	Module  string
	Segment Segment
	Index   int
	Limit   int
}

func (e *SegmentRangeError) Error() string {
	return fmt.Sprintf("%s: %s index %d out of range [0, %d]",
		e.Module, e.Segment, e.Index, e.Limit)
}
