package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pwrite-go/internal/app"
	"pwrite-go/internal/config"
	"pwrite-go/internal/pw"
	"pwrite-go/internal/ui"
)

// errOutcome makes the process exit non-zero after an outcome has
// already been printed.
var errOutcome = errors.New("operation did not succeed")

var out = ui.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errOutcome) {
			out.Error(err.Error())
		}
		os.Exit(1)
	}
}

// loadConfig reads the config file and expands "~" in its directories.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}

	for _, p := range []*string{&cfg.BaseDir, &cfg.LogDir, &cfg.Backup.Dir, &cfg.Staging.Dir,
		&cfg.Database.DataDir, &cfg.Encryption.PublicKeyPath, &cfg.Encryption.PrivateKeyPath} {
		if *p, err = app.ExpandPath(*p); err != nil {
			return nil, "", err
		}
	}
	return cfg, defaults.ConfigPath, nil
}

// newApp reads the config and creates a PWApp. The caller must defer app.Close().
func newApp(cmd *cobra.Command) (*app.PWApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	a, err := app.NewPWApp(cfg, app.Options{
		Verbose:  verbose,
		Notifier: out,
		Passphrase: func() (string, error) {
			return out.PromptPassword("Backup passphrase")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// confirm asks before touching the protected file unless --yes was given.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	yes, _ := cmd.Flags().GetBool("yes")
	if yes {
		return true, nil
	}
	if out.IsNonInteractive() {
		return false, fmt.Errorf("refusing to modify the target without a terminal; pass --yes")
	}
	return out.PromptYesNo(prompt, false)
}

func report(outcome pw.Outcome) error {
	out.Outcome(outcome)
	if !outcome.OK() {
		return errOutcome
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:           "pwrite",
	Short:         "Modify a root-owned file through the system's privilege prompt",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		out.SetNonInteractive(!ui.StdinIsTerminal())
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults.BaseDir)
		if target, _ := cmd.Flags().GetString("target"); target != "" {
			cfg.Target.Path = target
		}
		if facility, _ := cmd.Flags().GetString("facility"); facility != "" {
			cfg.Privilege.Facility = facility
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out.Success(fmt.Sprintf("Configuration initialized at %s", defaults.ConfigPath))
		out.Printf("Target:    %s\n", cfg.Target.Path)
		out.Printf("Facility:  %s\n", cfg.Privilege.Facility)
		out.Printf("Base Dir:  %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Target:     %s\n", cfg.Target.Path)
		fmt.Printf("Marker:     %s\n", cfg.Target.Marker)
		fmt.Printf("Facility:   %s\n", cfg.Privilege.Facility)
		fmt.Printf("Backup:     %s (encrypted: %v)\n", cfg.Backup.Type, cfg.Backup.Encrypted)
		fmt.Printf("Staging:    %s\n", cfg.Staging.Type)
		fmt.Printf("History:    %s\n", cfg.Database.Type)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate the key pair used to encrypt backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		passphrase, err := out.PromptPasswordConfirm("Passphrase for the backup key")
		if err != nil {
			return err
		}
		if err := app.SetupKeys(cfg, passphrase); err != nil {
			return err
		}

		out.Success(fmt.Sprintf("Keys written to %s", cfg.Encryption.PublicKeyPath))
		out.Info("Set `encrypted = true` under [backup] to seal new backups.")
		return nil
	},
}

// apply command
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Back up the target and append the marker through the privilege helper",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := confirm(cmd, "Modify the protected file?")
		if err != nil {
			return err
		}
		if !ok {
			out.Warning("Nothing changed")
			return nil
		}
		return report(a.Apply())
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Reinstall the backed-up content through the privilege helper",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.HasBackup() {
			return report(a.Restore())
		}

		ok, err := confirm(cmd, "Overwrite the protected file with the backup?")
		if err != nil {
			return err
		}
		if !ok {
			out.Warning("Nothing changed")
			return nil
		}
		return report(a.Restore())
	},
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the target, helper and backup state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.Status()
		if err != nil {
			return err
		}

		backup := "none"
		if s.HasBackup {
			backup = "available"
		}
		fmt.Printf("Target:    %s\n", s.Target)
		fmt.Printf("Helper:    %s (%s)\n", s.Facility, strings.Join(s.Command, " "))
		fmt.Printf("Backup:    %s at %s (%s, encrypted: %v)\n", backup, s.BackupAt, s.BackupType, s.Encrypted)
		fmt.Printf("State:     %s\n", s.State)
		if s.SchemaVersion > 0 {
			fmt.Printf("History:   schema v%d\n", s.SchemaVersion)
		}
		if s.SchemaProblem != "" {
			out.Warning(s.SchemaProblem)
		}
		if s.Last != nil {
			fmt.Printf("Last:      %s %s at %s\n", s.Last.Operation, s.Last.Outcome,
				s.Last.StartedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View apply and restore history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.GetHistory(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			backup := ""
			if op.BackupSaved {
				backup = "  [backup]"
			}
			fmt.Printf("#%d  %-8s  %s  %-20s  %s%s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Local().Format("2006-01-02 15:04:05"),
				op.Outcome,
				op.Duration().Truncate(time.Millisecond),
				backup,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Also write log output to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().String("target", "", "Protected file to manage (default /etc/hosts)")
	configInitCmd.Flags().String("facility", "", "Privilege helper: osascript, sudo, pkexec, doas or custom")
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeysCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
