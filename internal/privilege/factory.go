package privilege

import (
	"fmt"
	"slices"
	"strings"

	"pwrite-go/internal/config"
)

type facility struct {
	command string
	args    func(src, dst string) []string
}

var facilities = map[string]facility{
	"osascript": {command: "osascript", args: osascriptArgs},
	"sudo":      {command: "sudo", args: cpArgs},
	"pkexec":    {command: "pkexec", args: cpArgs},
	"doas":      {command: "doas", args: cpArgs},
}

// Facilities returns the names accepted in privilege.facility.
func Facilities() []string {
	names := make([]string, 0, len(facilities)+1)
	for name := range facilities {
		names = append(names, name)
	}
	names = append(names, "custom")
	slices.Sort(names)
	return names
}

// NewInvokerFromConfig creates an ExecInvoker for the configured facility.
// A preset facility may override its command; "custom" requires both a
// command and arguments referencing {src} and {dst}.
func NewInvokerFromConfig(cfg config.PrivilegeConfig, runner CommandRunner) (*ExecInvoker, error) {
	if runner == nil {
		runner = NewCommandRunner()
	}

	if cfg.Facility == "custom" {
		if cfg.Command == "" {
			return nil, fmt.Errorf("custom privilege facility requires command to be set")
		}
		joined := strings.Join(cfg.Args, " ")
		if !strings.Contains(joined, SrcPlaceholder) || !strings.Contains(joined, DstPlaceholder) {
			return nil, fmt.Errorf("custom privilege args must reference %s and %s", SrcPlaceholder, DstPlaceholder)
		}
		return NewExecInvoker(cfg.Facility, cfg.Command, templateArgs(cfg.Args), runner), nil
	}

	f, ok := facilities[cfg.Facility]
	if !ok {
		return nil, fmt.Errorf("unknown privilege facility: %s", cfg.Facility)
	}
	command := f.command
	if cfg.Command != "" {
		command = cfg.Command
	}
	return NewExecInvoker(cfg.Facility, command, f.args, runner), nil
}
