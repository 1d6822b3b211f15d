// Package verify checks generated Hack assembly for the structural defects a
// translator bug would introduce, and renders translation reports.
//
// The lint works on the assembly text alone:
//
//   - LABEL: a label declared more than once, or a jump whose target is not
//     a declared label (the assembler would silently turn it into a
//     variable)
//   - STATIC: more variables than the static region RAM[16..255] can hold
//   - SYNTAX: a malformed label declaration
package verify

// IssueType categorizes lint issues.
type IssueType string

const (
	IssueLabel  IssueType = "LABEL"
	IssueStatic IssueType = "STATIC"
	IssueSyntax IssueType = "SYNTAX"
)

// Issue is a single lint finding.
type Issue struct {
	Type    IssueType
	Line    int // 1-based, 0 if the issue is not tied to a line
	Symbol  string
	Message string
}

// StaticCapacity is the number of cells between the virtual registers and
// the stack.
const StaticCapacity = 256 - 16
