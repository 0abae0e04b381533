package privilege

import (
	"fmt"
	"strings"

	"pwrite-go/internal/pw"
)

// Placeholders substituted in custom argument templates.
const (
	SrcPlaceholder = "{src}"
	DstPlaceholder = "{dst}"
)

// ExecInvoker runs an elevation helper that copies the staged file over
// the destination. The helper owns the credential prompt; pwrite never
// sees the password.
type ExecInvoker struct {
	facility string
	command  string
	args     func(src, dst string) []string
	runner   CommandRunner
}

var _ pw.PrivilegeInvoker = (*ExecInvoker)(nil)

// NewExecInvoker creates an invoker that runs command with the arguments
// produced by args.
func NewExecInvoker(facility, command string, args func(src, dst string) []string, runner CommandRunner) *ExecInvoker {
	return &ExecInvoker{
		facility: facility,
		command:  command,
		args:     args,
		runner:   runner,
	}
}

// Facility returns the configured helper name.
func (i *ExecInvoker) Facility() string {
	return i.facility
}

// CommandLine returns the command that Copy would run, for display.
func (i *ExecInvoker) CommandLine(src, dst string) []string {
	return append([]string{i.command}, i.args(src, dst)...)
}

// Copy runs the helper and blocks until it exits, which includes the time
// the user spends at the credential prompt.
func (i *ExecInvoker) Copy(src, dst string) (*pw.RawResult, error) {
	output, exitCode, err := i.runner.Run(i.command, i.args(src, dst)...)
	if err != nil {
		return nil, &pw.LaunchError{Facility: i.facility, Err: err}
	}
	return &pw.RawResult{ExitCode: exitCode, Output: output}, nil
}

// cpArgs is the argument list for helpers that take the command to run
// as their own arguments (sudo, pkexec, doas).
func cpArgs(src, dst string) []string {
	return []string{"cp", src, dst}
}

// osascriptArgs asks macOS to run cp with administrator privileges. The
// paths are passed as AppleScript string literals and quoted for the
// shell by AppleScript itself.
func osascriptArgs(src, dst string) []string {
	script := fmt.Sprintf(
		`do shell script "cp " & quoted form of %s & " " & quoted form of %s with administrator privileges`,
		appleScriptString(src), appleScriptString(dst),
	)
	return []string{"-e", script}
}

// appleScriptString returns s as a double-quoted AppleScript literal.
func appleScriptString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// templateArgs substitutes the placeholders in each template argument.
func templateArgs(templates []string) func(src, dst string) []string {
	return func(src, dst string) []string {
		args := make([]string, len(templates))
		for i, t := range templates {
			t = strings.ReplaceAll(t, SrcPlaceholder, src)
			args[i] = strings.ReplaceAll(t, DstPlaceholder, dst)
		}
		return args
	}
}
