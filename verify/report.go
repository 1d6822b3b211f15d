package verify

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/hackvm/translator"
)

// Report combines translation statistics with the lint result.
type Report struct {
	Stats  translator.Stats
	Issues []Issue
}

// GenerateReport lints asm and attaches the statistics of the run that
// produced it.
func GenerateReport(asm string, stats translator.Stats) *Report {
	return &Report{
		Stats:  stats,
		Issues: Lint(asm),
	}
}

// OK reports whether the lint found nothing.
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

// WriteReport writes the report as tables.
func (r *Report) WriteReport(w io.Writer) {
	modTable := table.NewWriter()
	modTable.SetTitle("Translation")
	modTable.AppendHeader(table.Row{"Module", "Commands", "Instructions", "Labels"})

	commands := 0
	for _, m := range r.Stats.Modules {
		modTable.AppendRow(table.Row{m.Module, m.Commands, m.Instructions, m.Labels})
		commands += m.Commands
	}

	modTable.AppendFooter(table.Row{"Total", commands, r.Stats.Instructions, r.Stats.Labels})
	modTable.SetCaption("bootstrap: %v, generated labels: %d",
		r.Stats.Bootstrap, r.Stats.GeneratedLabels)

	fmt.Fprintln(w, modTable.Render())

	if r.OK() {
		fmt.Fprintln(w, "lint: no issues")
		return
	}

	r.WriteIssues(w)
}

// WriteIssues writes only the lint issues.
func (r *Report) WriteIssues(w io.Writer) {
	issueTable := table.NewWriter()
	issueTable.SetTitle(fmt.Sprintf("Lint (%d issues)", len(r.Issues)))
	issueTable.AppendHeader(table.Row{"Type", "Line", "Symbol", "Message"})

	for _, issue := range r.Issues {
		line := ""
		if issue.Line > 0 {
			line = fmt.Sprint(issue.Line)
		}
		issueTable.AppendRow(table.Row{issue.Type, line, issue.Symbol, issue.Message})
	}

	fmt.Fprintln(w, issueTable.Render())
}

// Summary is a one-line description of the issues.
func (r *Report) Summary() string {
	if r.OK() {
		return "no issues"
	}

	counts := map[IssueType]int{}
	for _, issue := range r.Issues {
		counts[issue.Type]++
	}

	var parts []string
	for _, t := range []IssueType{IssueLabel, IssueStatic, IssueSyntax} {
		if counts[t] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[t], t))
		}
	}

	return strings.Join(parts, ", ")
}
