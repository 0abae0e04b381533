package classify

import (
	"fmt"
	"slices"
	"strings"

	"pwrite-go/internal/pw"
)

// Rule matches helper output to an outcome. A rule matches when the output
// contains any of Markers or the exit code is one of ExitCodes.
type Rule struct {
	Kind      pw.OutcomeKind
	Markers   []string
	ExitCodes []int
}

func (r Rule) matches(result *pw.RawResult) bool {
	if slices.Contains(r.ExitCodes, result.ExitCode) {
		return true
	}
	for _, m := range r.Markers {
		if m != "" && strings.Contains(result.Output, m) {
			return true
		}
	}
	return false
}

// precedence is the fixed order rules are tried in. Helpers report both
// bad passwords and cancellation as non-zero exits with overlapping
// wording, so auth failures must be checked before cancellation.
var precedence = []pw.OutcomeKind{pw.AuthFailed, pw.UserCancelled}

// Table is the single place helper-specific diagnostics are interpreted.
type Table struct {
	rules    []Rule
	messages map[pw.OutcomeKind]string
}

var _ pw.Classifier = (*Table)(nil)

// NewTable builds a classifier from rules. Only AuthFailed and
// UserCancelled rules are meaningful; the order of rules does not matter.
// target is used in the default display messages.
func NewTable(target string, rules []Rule) (*Table, error) {
	for _, r := range rules {
		if !slices.Contains(precedence, r.Kind) {
			return nil, fmt.Errorf("rule for %s not allowed: only auth_failed and user_cancelled can be matched", r.Kind)
		}
	}
	return &Table{
		rules:    rules,
		messages: defaultMessages(target),
	}, nil
}

// SetMessage overrides the display message for kind.
func (t *Table) SetMessage(kind pw.OutcomeKind, msg string) {
	t.messages[kind] = msg
}

// Rules returns the rules of the table.
func (t *Table) Rules() []Rule {
	return t.rules
}

// Classify maps a helper result to an outcome. First match wins:
// exit 0, then auth failure, then cancellation, otherwise OtherFailure.
func (t *Table) Classify(result *pw.RawResult) pw.Outcome {
	if result == nil {
		return pw.Outcome{Kind: pw.OtherFailure, Message: t.messages[pw.OtherFailure]}
	}
	if result.ExitCode == 0 {
		return pw.Outcome{Kind: pw.Success, Message: t.messages[pw.Success]}
	}
	for _, kind := range precedence {
		for _, r := range t.rules {
			if r.Kind == kind && r.matches(result) {
				return pw.Outcome{Kind: kind, Message: t.messages[kind]}
			}
		}
	}
	return pw.Outcome{
		Kind:       pw.OtherFailure,
		Message:    t.messages[pw.OtherFailure],
		Diagnostic: strings.TrimSpace(result.Output),
	}
}

func defaultMessages(target string) map[pw.OutcomeKind]string {
	return map[pw.OutcomeKind]string{
		pw.Success:       fmt.Sprintf("Successfully updated %s", target),
		pw.AuthFailed:    "Authentication failed. Please try again with correct password.",
		pw.UserCancelled: "Operation cancelled by user",
		pw.OtherFailure:  fmt.Sprintf("Failed to update %s", target),
	}
}
