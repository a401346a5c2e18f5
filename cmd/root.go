package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"ontoai/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ontoai",
	Short: "Coaching practice manager: coachees, sessions, payments, reminders and AI summaries",
	Long: `ontoai keeps your coaching practice in a local SQLite file: coachees,
session notes and payments, scheduled sessions with reminders, and
AI-generated summaries of your notes through OpenAI, GroqCloud, Gemini
or a local GPT4All model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if dbPath != "" {
			c.DBPath = dbPath
		}
		cfg = c

		log.SetFlags(log.LstdFlags)
		if !verbose {
			log.SetOutput(io.Discard)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default $ONTOAI_DB_PATH or onto-ai.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log background activity to stderr")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
