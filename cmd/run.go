package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hollowoak/cback/pkg/config"
	"github.com/hollowoak/cback/pkg/dispatch"
	cbexec "github.com/hollowoak/cback/pkg/exec"
	"github.com/hollowoak/cback/pkg/journal"
	"github.com/hollowoak/cback/pkg/plugin"
)

var (
	runManaged     bool
	runManagedOnly bool
	runJournalPath string
)

func NewRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [action...]",
		Short: "Build and execute a backup plan",
		Long: `Build the execution plan for the requested actions and dispatch it,
hooks and managed peers included. Actions run strictly in plan order.

Examples:
  # The whole pipeline
  cback run all

  # Collect and stage only
  cback run collect stage

  # Distribute managed actions to peers as well
  cback run -M all`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRun,
	}
	runCmd.Flags().BoolVarP(&runManaged, "managed", "M", false, "Include managed actions for remote peers")
	runCmd.Flags().BoolVarP(&runManagedOnly, "managed-only", "N", false, "Include only managed actions, skipping local execution")
	runCmd.Flags().StringVar(&runJournalPath, "journal", "", "Path to the run journal database (empty disables journaling)")
	return runCmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	managed := runManaged || runManagedOnly
	local := !runManagedOnly

	s, err := cfg.Scheduler()
	if err != nil {
		return err
	}
	plan, err := s.BuildPlan(args, managed, local)
	if err != nil {
		return err
	}
	log.WithField("plan_id", plan.ID).Infof("Scheduled %d items", len(plan.Items))

	executor := &cbexec.RealCommandExecutor{}
	registry, err := buildRegistry(cfg, executor)
	if err != nil {
		return err
	}

	dispatcher := &dispatch.Dispatcher{
		Registry: registry,
		Executor: executor,
		Logger:   log,
	}
	if runJournalPath != "" {
		j, err := journal.Open(runJournalPath)
		if err != nil {
			return err
		}
		defer j.Close()
		if err := j.RecordRun(plan, args, managed, local); err != nil {
			log.WithError(err).Warn("Failed to record run in journal")
		}
		dispatcher.Recorder = j
	}

	if err := dispatcher.Run(cmd.Context(), plan); err != nil {
		return err
	}
	if stdoutIsTTY() {
		color.Green("Completed %d items.", len(plan.Items))
	} else {
		fmt.Printf("Completed %d items.\n", len(plan.Items))
	}
	return nil
}

// buildRegistry assembles the handler registry: built-in stubs first, then
// command-backed extensions from configuration, then yaegi plugins. Later
// registrations win, so a plugin may override a built-in stub.
func buildRegistry(cfg *config.Config, executor cbexec.CommandExecutor) (*dispatch.Registry, error) {
	registry := dispatch.NewRegistry()
	registry.RegisterBuiltinStubs(log)

	for _, ext := range cfg.Extensions.Actions {
		if ext.Command != "" {
			registry.RegisterShellHandler(ext.HandlerID(), ext.Command, executor)
		}
	}

	handlers, err := plugin.LoadDir(cfg.PluginsDir)
	if err != nil {
		return nil, err
	}
	for id, fn := range handlers {
		registry.Register(id, dispatch.HandlerFunc(fn))
		log.WithField("handler", id).Debug("Registered plugin handler")
	}
	return registry, nil
}
