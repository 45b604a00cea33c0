package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for flowplan and print it to stdout.

  bash:        source <(flowplan completion bash)
  zsh:         flowplan completion zsh > "${fpath[1]}/_flowplan"
  fish:        flowplan completion fish > ~/.config/fish/completions/flowplan.fish
  powershell:  flowplan completion powershell | Out-String | Invoke-Expression

Flags such as --mode, --strategy and --format complete their allowed values.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// registerCompletions adds value completion for the enumerated plan flags.
func registerCompletions(cmd *cobra.Command) {
	fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp)
	}
	_ = cmd.RegisterFlagCompletionFunc("mode", fixed("single", "dual", "both"))
	_ = cmd.RegisterFlagCompletionFunc("strategy", fixed("half", "full", "balanced"))
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", fixed("json", "dot", "svg", "png", "pdf"))
	}
}
