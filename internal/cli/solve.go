package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/flowplan/pkg/errors"
	"github.com/matzehuels/flowplan/pkg/pipeline"
	"github.com/matzehuels/flowplan/pkg/release"
)

// solveFlags holds the flags for the solve command.
type solveFlags struct {
	opts    pipeline.Options
	jsonOut bool
	noCache bool
}

// solveCommand creates the solve command for planning valve openings.
func (c *CLI) solveCommand() *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Plan the best valve openings for one and two agents",
		Long: `Solve reads a valve network and prints the most pressure that can be released.

The single-agent plan has the full budget (default 30 minutes). The dual plan
splits the valves between two agents that both start at the start valve with
a shorter budget (default 26 minutes).

Input may be the text format ("Valve AA has flow rate=0; ..."), JSON, TOML or YAML,
chosen by file extension.`,
		Example: `  # Both plans for the puzzle input
  flowplan solve input.txt

  # Only the dual plan, checked against every ordered split
  flowplan solve input.txt --mode dual --strategy full

  # Machine-readable output
  flowplan solve network.json --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.opts.Input = args[0]
			}
			return c.runSolve(cmd.Context(), flags)
		},
	}

	addPlanFlags(cmd, &flags.opts)
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the result cache")
	registerCompletions(cmd)

	return cmd
}

// addPlanFlags registers the planning flags shared by solve and render.
func addPlanFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Start, "start", "", "start valve (default from input, else AA)")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "plans to compute: single, dual, both (default both)")
	cmd.Flags().IntVarP(&opts.SingleBudget, "budget", "b", 0, "minutes for the single-agent plan (default 30)")
	cmd.Flags().IntVar(&opts.DualBudget, "dual-budget", 0, "minutes for each agent in the dual plan (default 26)")
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", "", "dual split strategy: half, full, balanced (default half)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "parallel dual workers (default number of CPUs)")
	cmd.Flags().IntVar(&opts.Timeout, "timeout", 0, "abort planning after this many seconds")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached plans and recompute")
}

// runSolve executes the pipeline without rendering and prints the plans.
func (c *CLI) runSolve(ctx context.Context, flags solveFlags) error {
	opts, err := c.resolveOptions(flags.opts)
	if err != nil {
		return err
	}
	if err := requireInput(opts); err != nil {
		return err
	}
	if flags.noCache {
		opts.CacheBackend = pipeline.CacheNone
	}
	opts.Formats = nil

	res, err := c.execute(ctx, opts, "Planning valve openings...")
	if err != nil {
		return err
	}

	if flags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printPlans(opts.Input, res)
	printNextStep("Draw the plan", "flowplan render "+opts.Input)
	return nil
}

// execute runs the pipeline for a CLI command. At info level the pipeline's
// own log lines are replaced by a spinner; at debug level everything is logged.
func (c *CLI) execute(ctx context.Context, opts pipeline.Options, message string) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	verbose := logger.GetLevel() <= log.DebugLevel

	if !verbose {
		quiet := logger.With()
		quiet.SetLevel(log.WarnLevel)
		opts.Logger = quiet
		ctx = withLogger(ctx, quiet)
	}
	opts.Progress = newPlannerLogger(ctx).Progress()

	runner, err := c.newRunner(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	var spinner *Spinner
	if !verbose {
		spinner = newSpinner(ctx, os.Stderr, message)
		spinner.Start()
	}
	prog := newProgress(logger)
	res, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}
	if verbose {
		prog.done(fmt.Sprintf("Pipeline finished for %d valves", res.Valves))
	}
	return res, nil
}

// printPlans prints the single and dual plans in human-readable form.
func printPlans(source string, res *pipeline.Result) {
	printSuccess("Planned %s", source)
	printStats(res.Valves, res.Openable, res.CacheInfo.PlanHit)
	fmt.Println()

	if p := res.Single; p != nil {
		printKeyValue("Single", fmt.Sprintf("%s in %d minutes from %s",
			StyleNumber.Render(fmt.Sprint(p.Pressure)), p.Budget, res.Start))
		printRoute(p.Route)
		fmt.Println()
	}
	if p := res.Dual; p != nil {
		if p.Strategy == string(release.StrategyBalanced) {
			printWarning("balanced splits may miss the best plan; use --strategy half to confirm")
		}
		printKeyValue("Dual", fmt.Sprintf("%s in %d minutes (%s split, %d masks)",
			StyleNumber.Render(fmt.Sprint(p.Pressure)), p.Budget, p.Strategy, p.Masks))
		for i, agent := range p.Agents {
			printKeyValue(fmt.Sprintf("  Agent %d", i+1),
				fmt.Sprintf("%d from %s", agent.Pressure, joinOrNone(p.Split[i])))
			printRoute(agent.Route)
		}
		fmt.Println()
	}
}

func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "nothing"
	}
	return strings.Join(ids, " ")
}

// requireInput fails when neither a file argument nor a config input is set.
func requireInput(opts pipeline.Options) error {
	if opts.Input == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "an input file is required")
	}
	return nil
}
