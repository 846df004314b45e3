package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardsheet/pkg/geometry"
	"github.com/matzehuels/cardsheet/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cardsheet.

Bash:
  $ source <(cardsheet completion bash)

Zsh:
  $ cardsheet completion zsh > "${fpath[1]}/_cardsheet"

Fish:
  $ cardsheet completion fish > ~/.config/fish/completions/cardsheet.fish

PowerShell:
  PS> cardsheet completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// registerFlagCompletions offers page sizes and formats for the flags
// that take them. Flags missing from cmd are skipped.
func registerFlagCompletions(cmd *cobra.Command) {
	if cmd.Flags().Lookup("page-size") != nil {
		_ = cmd.RegisterFlagCompletionFunc("page-size", fixedCompletions(geometry.Sizes()...))
	}
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions(
			pipeline.FormatSVG, pipeline.FormatPDF, pipeline.FormatPNG, pipeline.FormatJSON))
	}
}

func fixedCompletions(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
