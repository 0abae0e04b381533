package classify

import (
	"fmt"
	"slices"

	"pwrite-go/internal/config"
	"pwrite-go/internal/pw"
)

// Presets holds the diagnostics each supported helper is known to emit.
var Presets = map[string][]Rule{
	"osascript": {
		{Kind: pw.AuthFailed, Markers: []string{"-60005", "administrator user name or password was incorrect"}},
		{Kind: pw.UserCancelled, Markers: []string{"(-128)", "User canceled"}},
	},
	"sudo": {
		{Kind: pw.AuthFailed, Markers: []string{"incorrect password attempt", "Sorry, try again"}},
		{Kind: pw.UserCancelled, Markers: []string{"no password was provided", "a password is required"}},
	},
	"pkexec": {
		{Kind: pw.AuthFailed, Markers: []string{"Not authorized"}, ExitCodes: []int{127}},
		{Kind: pw.UserCancelled, Markers: []string{"Request dismissed"}, ExitCodes: []int{126}},
	},
	"doas": {
		{Kind: pw.AuthFailed, Markers: []string{"Authentication failed", "Authorization failed"}},
		{Kind: pw.UserCancelled, Markers: []string{"No password provided"}},
	},
	"custom": {},
}

// NewTableFromConfig builds the table for the configured facility,
// appends any markers or exit codes given in the privilege config and
// applies its message overrides.
func NewTableFromConfig(cfg config.PrivilegeConfig, target string) (*Table, error) {
	preset, ok := Presets[cfg.Facility]
	if !ok {
		return nil, fmt.Errorf("unknown privilege facility: %s", cfg.Facility)
	}

	rules := make([]Rule, 0, len(preset)+2)
	if !cfg.ReplaceMarkers {
		rules = append(rules, preset...)
	}
	if len(cfg.AuthMarkers) > 0 || len(cfg.AuthExitCodes) > 0 {
		rules = append(rules, Rule{Kind: pw.AuthFailed, Markers: cfg.AuthMarkers, ExitCodes: cfg.AuthExitCodes})
	}
	if len(cfg.CancelMarkers) > 0 || len(cfg.CancelExitCodes) > 0 {
		rules = append(rules, Rule{Kind: pw.UserCancelled, Markers: cfg.CancelMarkers, ExitCodes: cfg.CancelExitCodes})
	}

	table, err := NewTable(target, rules)
	if err != nil {
		return nil, err
	}
	for name, msg := range cfg.Messages {
		kind, ok := pw.ParseOutcomeKind(name)
		if !ok || (kind != pw.Success && kind != pw.OtherFailure && !slices.Contains(precedence, kind)) {
			return nil, fmt.Errorf("privilege.messages: no classified outcome named %q", name)
		}
		table.SetMessage(kind, msg)
	}
	return table, nil
}
