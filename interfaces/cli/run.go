package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/autopilot/domain/agent"
	infraconfig "github.com/felixgeelhaar/autopilot/infrastructure/config"
	"github.com/felixgeelhaar/autopilot/interfaces/api"
)

// runOptions holds options for the run command.
type runOptions struct {
	configPath string
	goal       string
	goalType   string
	maxCycles  uint64
	timeout    time.Duration
	jsonOutput bool
	dryRun     bool
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [goal]",
		Short: "Run an agent with the specified goal",
		Long: `Run an agent from the provided configuration file.

The agent loops through its autonomy cycle until the execution-time budget,
the cycle budget, or an interrupt stops it. The goal argument is queued
before the first cycle; without one, the configured default goal is used.

Examples:
  # Run with a config file and goal as argument
  autopilot run -c agent.yaml "tidy the workspace"

  # Bound the run to 100 cycles
  autopilot run -c agent.yaml --max-cycles 100 "tidy the workspace"

  # Queue an immediate (single-step) goal
  autopilot run -c agent.yaml --goal-type immediate "ping"

  # Validate the configuration without running
  autopilot run -c agent.yaml --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.goal = args[0]
			}
			return a.runAgent(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (required)")
	cmd.Flags().StringVar(&opts.goalType, "goal-type", "complex", "Goal type (immediate or complex)")
	cmd.Flags().Uint64Var(&opts.maxCycles, "max-cycles", 0, "Maximum cycles (overrides config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Run timeout (0 = config execution budget)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the run summary as JSON")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate configuration without running")

	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// runSummary is the end-of-run report.
type runSummary struct {
	AgentID        string        `json:"agent_id"`
	Status         agent.Status  `json:"status"`
	Goals          int           `json:"goals"`
	CompletedGoals int           `json:"completed_goals"`
	ErrorCount     int           `json:"error_count"`
	Cycles         int           `json:"cycles"`
	SuccessRate    float64       `json:"success_rate"`
	Uptime         time.Duration `json:"uptime"`
}

// runAgent executes the agent with the given options.
func (a *App) runAgent(ctx context.Context, opts *runOptions) error {
	cfg, err := infraconfig.NewLoader().LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if opts.maxCycles > 0 {
		cfg.Agent.MaxCycles = int(opts.maxCycles)
	}

	if opts.dryRun {
		if _, err := infraconfig.NewBuilder(cfg).Build(); err != nil {
			return fmt.Errorf("building components: %w", err)
		}
		fmt.Fprintf(a.stdout, "Configuration valid: %s (dry run, not executing)\n", opts.configPath)
		return nil
	}

	rt, err := api.RuntimeFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("assembling runtime: %w", err)
	}
	defer func() {
		_ = rt.Close(context.Background())
	}()

	if opts.goal != "" {
		goalType := agent.GoalComplex
		if opts.goalType == "immediate" {
			goalType = agent.GoalImmediate
		}
		rt.Agent.AddGoal(api.NewGoal("", opts.goal, goalType, 1))
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	rt.Run(ctx)

	return a.printSummary(opts, rt)
}

// printSummary reports the run outcome.
func (a *App) printSummary(opts *runOptions, rt *api.Runtime) error {
	state := rt.Agent.State()
	m := rt.Agent.Metrics()

	completed := 0
	for _, g := range state.Goals {
		if g.Status == agent.GoalCompleted {
			completed++
		}
	}

	summary := runSummary{
		AgentID:        state.ID,
		Status:         state.Status,
		Goals:          len(state.Goals),
		CompletedGoals: completed,
		ErrorCount:     state.ErrorCount,
		Cycles:         m.TasksAttempted,
		SuccessRate:    m.SuccessRate,
		Uptime:         m.Uptime,
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Fprintf(a.stdout, "Agent %s finished: %s\n", summary.AgentID, summary.Status)
	fmt.Fprintf(a.stdout, "  Goals: %d (%d completed)\n", summary.Goals, summary.CompletedGoals)
	fmt.Fprintf(a.stdout, "  Cycles: %d (success rate %.2f)\n", summary.Cycles, summary.SuccessRate)
	fmt.Fprintf(a.stdout, "  Errors: %d\n", summary.ErrorCount)
	fmt.Fprintf(a.stdout, "  Uptime: %s\n", summary.Uptime)
	return nil
}
