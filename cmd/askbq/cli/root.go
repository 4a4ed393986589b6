package cli

import (
	"github.com/spf13/cobra"
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	return newRootCmd(version, commit, date).Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "askbq",
		Short: "Ask your BigQuery data questions in plain language",
		Long: `askbq turns natural-language questions into GoogleSQL, runs them against
your BigQuery dataset, and returns the rows together with the generated
query for inspection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}
