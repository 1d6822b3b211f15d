// Package label hands out assembly labels that never collide.
//
// VM identifiers cannot contain '$', so every label produced here falls into
// one of two disjoint shapes: scoped user labels of the form "scope$name",
// and generated labels that start with '$'. A Service owns a single counter;
// each translation run must use its own Service.
package label

import (
	"fmt"
	"strings"
)

// Service issues generated labels from a monotonically increasing counter.
type Service struct {
	next int
}

// New creates a Service whose first label number is 0.
func New() *Service {
	return &Service{}
}

func (s *Service) take() int {
	n := s.next
	s.next++
	return n
}

// Issued returns how many label numbers have been handed out.
func (s *Service) Issued() int {
	return s.next
}

// Branch returns the true-branch and end labels for one comparison site.
// Both labels share one counter value and differ by their role.
func (s *Service) Branch(op string) (trueLabel, endLabel string) {
	l := s.Site(op, "TRUE", "END")
	return l[0], l[1]
}

// Site returns one label per role, all sharing a single counter value:
// "$OP.ROLE.n".
func (s *Service) Site(op string, roles ...string) []string {
	n := s.take()
	op = strings.ToUpper(op)

	labels := make([]string, len(roles))
	for i, role := range roles {
		labels[i] = fmt.Sprintf("$%s.%s.%d", op, role, n)
	}

	return labels
}

// ReturnSite returns the resumption label for one call site. The counter
// value is always the last dot-separated field, so two sites never share a
// label even when callee names contain dots.
func (s *Service) ReturnSite(callee string) string {
	return fmt.Sprintf("$ret.%s.%d", callee, s.take())
}

// Scoped composes the label a VM label command refers to inside scope.
func Scoped(scope, name string) string {
	return scope + "$" + name
}

// Generated reports whether l was produced by a Service rather than by
// Scoped or a function name.
func Generated(l string) bool {
	return strings.HasPrefix(l, "$")
}

// Halt is the label of the loop the bootstrap parks on if the entry
// function ever returns.
const Halt = "$halt"

// End is the label of the optional loop appended after the last module.
const End = "$end"
