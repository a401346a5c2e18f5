package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ontoai/internal/summary"

	"github.com/spf13/cobra"
)

var (
	consultPrompt   string
	consultProvider string
)

func init() {
	rootCmd.AddCommand(consultCmd)
	consultCmd.Flags().StringVar(&consultPrompt, "prompt", "", "custom question; the session notes are appended")
	consultCmd.Flags().StringVar(&consultProvider, "provider", "", "AI provider (default: configured provider)")
	consultCmd.Flags().BoolVar(&sumCopy, "copy", false, "copy the answer to the clipboard")
	consultCmd.Flags().StringVar(&sumOut, "out", "", "also write the answer to a file")
}

var consultCmd = &cobra.Command{
	Use:   "consult <session-id>",
	Short: "Ask the AI about one session's notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "session")
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sess, err := st.GetSession(id)
		if err != nil {
			return err
		}

		prompt := summary.ConsultPrompt(sess.Notes)
		if q := strings.TrimSpace(consultPrompt); q != "" {
			prompt = q + "\n\n" + sess.Notes
		}

		provider, err := providerFor(st, consultProvider)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		job, err := summary.NewDispatcher().Start(ctx, provider, prompt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Consulting %s about session %d...\n\n", providerLine(provider), id)
		text, err := job.Wait()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return deliver(out, text)
	},
}
