package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the practice database (or upgrade an existing one)",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, statErr := os.Stat(cfg.DBPath)
		existed := statErr == nil

		st, err := openStore()
		if err != nil {
			return fmt.Errorf("init failed: %w", err)
		}
		defer st.Close()

		if existed {
			fmt.Fprintf(out, "Database %s is up to date\n", cfg.DBPath)
			return nil
		}
		fmt.Fprintf(out, "Created practice database at %s\n", cfg.DBPath)
		fmt.Fprintln(out, "Next: 'ontoai coachee add' and 'ontoai settings provider'")
		return nil
	},
}
