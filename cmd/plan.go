package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hollowoak/cback/pkg/scheduler"
)

var (
	planManaged     bool
	planManagedOnly bool
	planJSON        bool
	planTUI         bool
)

// planItemView is the JSON shape of one plan item.
type planItemView struct {
	Name      string                  `json:"name"`
	Index     int                     `json:"index"`
	Handler   string                  `json:"handler"`
	PreHooks  []string                `json:"pre_hooks,omitempty"`
	PostHooks []string                `json:"post_hooks,omitempty"`
	Peer      *scheduler.ResolvedPeer `json:"peer,omitempty"`
}

func NewPlanCmd() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan [action...]",
		Short: "Show the execution plan without running anything",
		Long: `Resolve, order, hook-attach and peer-expand the requested actions, then
print the resulting plan. Nothing is executed and no connections are
opened; this is the dry-run view of exactly what 'cback run' would do.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runPlan,
	}
	planCmd.Flags().BoolVarP(&planManaged, "managed", "M", false, "Include managed actions for remote peers")
	planCmd.Flags().BoolVarP(&planManagedOnly, "managed-only", "N", false, "Include only managed actions, skipping local execution")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Output the plan as JSON")
	planCmd.Flags().BoolVarP(&planTUI, "tui", "t", false, "Browse the plan in an interactive TUI")
	return planCmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := cfg.Scheduler()
	if err != nil {
		return err
	}

	managed := planManaged || planManagedOnly
	local := !planManagedOnly
	plan, err := s.BuildPlan(args, managed, local)
	if err != nil {
		return err
	}

	if planJSON {
		return outputPlanJSON(plan)
	}
	if planTUI && stdoutIsTTY() {
		return runPlanTUI(plan)
	}
	printPlanTable(plan)
	return nil
}

func outputPlanJSON(plan *scheduler.Plan) error {
	views := make([]planItemView, 0, len(plan.Items))
	for _, item := range plan.Items {
		views = append(views, planItemView{
			Name:      item.Name,
			Index:     item.Index,
			Handler:   item.Handler,
			PreHooks:  hookCommands(item.PreHooks),
			PostHooks: hookCommands(item.PostHooks),
			Peer:      item.RemotePeer,
		})
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		ID    string         `json:"id"`
		Items []planItemView `json:"items"`
	}{ID: plan.ID, Items: views})
}

func printPlanTable(plan *scheduler.Plan) {
	if len(plan.Items) == 0 {
		fmt.Println("Plan is empty.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tACTION\tWHERE\tHOOKS\tHANDLER")
	for i, item := range plan.Items {
		where := "local"
		if item.IsRemote() {
			where = item.RemotePeer.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, item.Name, where, hookSummary(item), item.Handler)
	}
	w.Flush()
}

func hookSummary(item scheduler.ActionItem) string {
	var parts []string
	if n := len(item.PreHooks); n > 0 {
		parts = append(parts, fmt.Sprintf("%d pre", n))
	}
	if n := len(item.PostHooks); n > 0 {
		parts = append(parts, fmt.Sprintf("%d post", n))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func hookCommands(hooks []scheduler.HookSpec) []string {
	if len(hooks) == 0 {
		return nil
	}
	commands := make([]string, len(hooks))
	for i, hook := range hooks {
		commands[i] = hook.Command
	}
	return commands
}

// warnColor is shared by the scheduling commands for operator-facing notes.
var warnColor = color.New(color.FgYellow)
