package cmd

import (
	"fmt"

	"github.com/fatih/color"
	shellwords "github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	cbexec "github.com/hollowoak/cback/pkg/exec"
	"github.com/hollowoak/cback/pkg/scheduler"
)

func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without running anything",
		Long: `Load the configuration and dry-run the scheduler against it: the full
pipeline is resolved, ordered and peer-expanded in both local and managed
mode. Every ordering problem (unknown actions or dependencies, cycles,
missing indices) is reported here, before any backup work would begin.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := cfg.Scheduler()
	if err != nil {
		return err
	}

	// Exercise every declared action, not just the pipeline, so a broken
	// extension ordering is caught even if nobody requested it yet.
	requests := [][]string{{scheduler.ActionAll}}
	for _, ext := range s.Catalog.Extensions() {
		requests = append(requests, []string{ext.Name})
	}

	for _, requested := range requests {
		if _, err := s.BuildPlan(requested, true, true); err != nil {
			return fmt.Errorf("scheduling %v: %w", requested, err)
		}
		if _, err := s.BuildPlan(requested, false, true); err != nil {
			return fmt.Errorf("scheduling %v: %w", requested, err)
		}
	}

	for _, warning := range transportWarnings(s, &cbexec.RealCommandExecutor{}) {
		warnColor.Println("Warning: " + warning + ".")
	}

	managedPeers := 0
	for _, peer := range s.Peers {
		if peer.Managed {
			managedPeers++
		}
	}
	if stdoutIsTTY() {
		color.Green("Configuration is valid: %d extensions, %d peers (%d managed).",
			len(s.Catalog.Extensions()), len(s.Peers), managedPeers)
	} else {
		fmt.Printf("Configuration is valid: %d extensions, %d peers (%d managed).\n",
			len(s.Catalog.Extensions()), len(s.Peers), managedPeers)
	}
	return nil
}

// transportWarnings checks the managed-peer transport setup: a missing
// global rsh_command, and rsh binaries that cannot be found on PATH. A
// configuration with no managed peers needs no transport and gets no
// warnings.
func transportWarnings(s *scheduler.Scheduler, executor cbexec.CommandExecutor) []string {
	anyManaged := false
	for _, peer := range s.Peers {
		if peer.Managed {
			anyManaged = true
			break
		}
	}
	if !anyManaged {
		return nil
	}

	var warnings []string
	if s.Defaults.RshCommand == "" {
		warnings = append(warnings, "managed peers are configured but no global rsh_command is set")
	}

	commands := []string{s.Defaults.RshCommand}
	for _, peer := range s.Peers {
		if peer.Managed {
			commands = append(commands, peer.RshCommand)
		}
	}
	seen := make(map[string]bool)
	for _, command := range commands {
		if command == "" || seen[command] {
			continue
		}
		seen[command] = true
		fields, err := shellwords.Parse(command)
		if err != nil || len(fields) == 0 {
			warnings = append(warnings, fmt.Sprintf("rsh command [%s] cannot be parsed", command))
			continue
		}
		if _, err := executor.LookPath(fields[0]); err != nil {
			warnings = append(warnings, fmt.Sprintf("rsh command [%s] was not found on PATH", fields[0]))
		}
	}
	return warnings
}
