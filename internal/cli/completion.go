package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/topiccloud/pkg/measure"
	"github.com/matzehuels/topiccloud/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for topiccloud.

Bash:
  $ source <(topiccloud completion bash)

Zsh:
  $ topiccloud completion zsh > "${fpath[1]}/_topiccloud"

Fish:
  $ topiccloud completion fish | source

PowerShell:
  PS> topiccloud completion powershell | Out-String | Invoke-Expression
`,
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

// completeFormats completes the comma-separated --format flag.
func completeFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return sortedKeys(pipeline.ValidFormats), cobra.ShellCompDirectiveNoFileComp
}

// completeMetrics completes the --metrics flag.
func completeMetrics(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return sortedKeys(measure.ValidKinds), cobra.ShellCompDirectiveNoFileComp
}
