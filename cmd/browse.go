package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ldomaradzki/xcsift-sub001/internal/controller"
)

// browseCmd represents the browse command.
var browseCmd = newBrowseCmd()

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [logfile]",
		Short: "Browse a parsed build log interactively",
		Long: `Parse a saved build log and browse the extracted errors, warnings,
linker diagnostics and failed tests in an interactive list. Reads from
stdin when no logfile is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				input []byte
				err   error
			)

			if len(args) == 1 {
				input, err = os.ReadFile(args[0])
			} else {
				input, err = io.ReadAll(cmd.InOrStdin())
			}

			if err != nil {
				return fmt.Errorf("read log: %w", err)
			}

			result := newParser().Parse(string(input))

			return controller.NewBrowser(result, cmd.OutOrStdout()).Run()
		},
	}
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
