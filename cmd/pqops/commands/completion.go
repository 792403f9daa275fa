package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/pqops/internal/config"
)

// NewCompletionCommand creates the completion command for generating shell completions.
func NewCompletionCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pqops.

To load completions:

Bash:
  $ source <(pqops completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ pqops completion bash > /etc/bash_completion.d/pqops
  # macOS:
  $ pqops completion bash > $(brew --prefix)/etc/bash_completion.d/pqops

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pqops completion zsh > "${fpath[1]}/_pqops"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pqops completion fish | source

  # To load completions for each session, execute once:
  $ pqops completion fish > ~/.config/fish/completions/pqops.fish

PowerShell:
  PS> pqops completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> pqops completion powershell > pqops.ps1
  # and source this file from your PowerShell profile.
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

	return cmd
}
