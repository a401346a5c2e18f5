package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ontoai/internal/ai"
	"ontoai/internal/store"
	"ontoai/internal/summary"

	"github.com/spf13/cobra"
)

var (
	sumCoachee  int64
	sumFrom     string
	sumTo       string
	sumType     string
	sumProvider string
	sumSave     bool
	sumCopy     bool
	sumDryRun   bool
	sumOut      string

	listCoachee int64
	listType    string
)

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.AddCommand(summaryGenerateCmd)
	summaryCmd.AddCommand(summaryListCmd)
	summaryCmd.AddCommand(summaryShowCmd)
	summaryCmd.AddCommand(summaryDeleteCmd)
	summaryCmd.AddCommand(summaryTypesCmd)

	f := summaryGenerateCmd.Flags()
	f.Int64Var(&sumCoachee, "coachee", 0, "coachee id (0 = all coachees)")
	f.StringVar(&sumFrom, "from", "", "first day, YYYY-MM-DD (default 30 days ago)")
	f.StringVar(&sumTo, "to", "", "last day, YYYY-MM-DD (default today)")
	f.StringVar(&sumType, "type", "general", "summary type (see 'ontoai summary types')")
	f.StringVar(&sumProvider, "provider", "", "AI provider (default: configured provider)")
	f.BoolVar(&sumSave, "save", false, "save the summary (needs --coachee)")
	f.BoolVar(&sumCopy, "copy", false, "copy the result to the clipboard")
	f.BoolVar(&sumDryRun, "dry-run", false, "print the prompt instead of calling the provider")
	f.StringVar(&sumOut, "out", "", "also write the result to a file")

	summaryListCmd.Flags().Int64Var(&listCoachee, "coachee", 0, "only this coachee")
	summaryListCmd.Flags().StringVar(&listType, "type", "", "only this summary type")
	summaryShowCmd.Flags().BoolVar(&sumCopy, "copy", false, "copy the content to the clipboard")
}

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"summaries"},
	Short:   "Generate and browse AI summaries of session notes",
}

var summaryGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Summarize the sessions in a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := summary.LookupKind(sumType)
		if !ok {
			return fmt.Errorf("unknown summary type %q (see 'ontoai summary types')", sumType)
		}
		if sumSave && sumCoachee == 0 {
			return summary.ErrNeedsCoachee
		}
		req, err := summaryRequest()
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		col, err := summary.Collect(ctx, st, req)
		if errors.Is(err, summary.ErrNoSessions) {
			return fmt.Errorf("no sessions between %s and %s; nothing to summarize",
				req.From.Format(store.DateLayout), req.To.Format(store.DateLayout))
		}
		if err != nil {
			return err
		}
		prompt := summary.BuildPrompt(kind, col)

		out := cmd.OutOrStdout()
		if sumDryRun {
			fmt.Fprintln(out, prompt)
			return nil
		}

		provider, err := providerFor(st, sumProvider)
		if err != nil {
			return err
		}
		tokens, limit := summary.EstimateTokens(prompt, provider.Name())
		fmt.Fprintf(out, "%s: %d sessions, ~%s tokens", kind.Label, len(col.Sessions), formatTokens(tokens))
		if limit > 0 {
			fmt.Fprintf(out, " of %s", formatTokens(limit))
		}
		fmt.Fprintln(out)
		if limit > 0 && tokens > limit {
			fmt.Fprintln(out, "Warning: the prompt may exceed the model's context window; narrow the date range")
		}

		job, err := summary.NewDispatcher().Start(ctx, provider, prompt)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Generating with %s...\n\n", providerLine(provider))
		text, err := job.Wait()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)

		if sumSave {
			rec, err := summary.NewSummary(kind, col, text, provider.Name())
			if err != nil {
				return err
			}
			id, err := st.AddSummary(rec)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSaved as summary %d: %s\n", id, rec.Title)
		}
		return deliver(out, text)
	},
}

var summaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved summaries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := store.SummaryFilter{CoacheeID: listCoachee}
		if listType != "" {
			kind, ok := summary.LookupKind(listType)
			if !ok {
				return fmt.Errorf("unknown summary type %q", listType)
			}
			filter.Type = kind.Label
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		list, err := st.ListSummaries(filter)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No saved summaries")
			return nil
		}
		fmt.Fprintf(out, "%-6s %-17s %-10s %s\n", "ID", "CREATED", "PROVIDER", "TITLE")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, s := range list {
			fmt.Fprintf(out, "%-6d %-17s %-10s %s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), orDash(s.AIProvider), truncate(s.Title, 70))
		}
		return nil
	},
}

var summaryShowCmd = &cobra.Command{
	Use:   "show <summary-id>",
	Short: "Print a saved summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "summary")
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := st.GetSummary(id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", s.Title)
		fmt.Fprintf(out, "Type:     %s\n", s.Type)
		fmt.Fprintf(out, "Period:   %s to %s\n", s.DateFrom.Format(store.DateLayout), s.DateTo.Format(store.DateLayout))
		fmt.Fprintf(out, "Provider: %s\n", orDash(s.AIProvider))
		fmt.Fprintf(out, "Created:  %s\n", s.CreatedAt.Format(store.TimeLayout))
		if s.SessionIDs != "" {
			fmt.Fprintf(out, "Sessions: %s\n", s.SessionIDs)
		}
		fmt.Fprintf(out, "\n%s\n", s.Content)
		if sumCopy {
			copyToClipboard(out, s.Content)
		}
		return nil
	},
}

var summaryDeleteCmd = &cobra.Command{
	Use:   "delete <summary-id>",
	Short: "Delete a saved summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "summary")
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteSummary(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Summary %d deleted\n", id)
		return nil
	},
}

var summaryTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the available summary types",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, k := range summary.Kinds() {
			fmt.Fprintf(out, "%-16s %s\n", k.Key, k.Label)
		}
	},
}

func summaryRequest() (summary.Request, error) {
	to, err := parseDay(sumTo)
	if err != nil {
		return summary.Request{}, err
	}
	from := to.AddDate(0, 0, -30)
	if sumFrom != "" {
		if from, err = parseDay(sumFrom); err != nil {
			return summary.Request{}, err
		}
	}
	return summary.Request{CoacheeID: sumCoachee, From: from, To: to}, nil
}

// deliver handles --out and --copy for generated text.
func deliver(out io.Writer, text string) error {
	if sumOut != "" {
		if err := os.WriteFile(sumOut, []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("write %s: %w", sumOut, err)
		}
		fmt.Fprintf(out, "Written to %s\n", sumOut)
	}
	if sumCopy {
		copyToClipboard(out, text)
	}
	return nil
}

// providerLine describes p for status output.
func providerLine(p ai.Provider) string {
	return fmt.Sprintf("%s (%s)", p.Name(), p.Model())
}
