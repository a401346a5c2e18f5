package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"ontoai/internal/store"

	"github.com/spf13/cobra"
)

var (
	coacheeFirst string
	coacheeLast  string
	coacheeEmail string
	coacheePhone string
)

func init() {
	rootCmd.AddCommand(coacheeCmd)
	coacheeCmd.AddCommand(coacheeAddCmd)
	coacheeCmd.AddCommand(coacheeListCmd)
	coacheeCmd.AddCommand(coacheeSearchCmd)
	coacheeCmd.AddCommand(coacheeShowCmd)

	coacheeAddCmd.Flags().StringVar(&coacheeFirst, "first", "", "first name (required)")
	coacheeAddCmd.Flags().StringVar(&coacheeLast, "last", "", "last name (required)")
	coacheeAddCmd.Flags().StringVar(&coacheeEmail, "email", "", "email address")
	coacheeAddCmd.Flags().StringVar(&coacheePhone, "phone", "", "phone number (required)")
}

var coacheeCmd = &cobra.Command{
	Use:     "coachee",
	Aliases: []string{"coachees"},
	Short:   "Manage coachees",
}

var coacheeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new coachee",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := st.AddCoachee(store.Coachee{
			FirstName: coacheeFirst,
			LastName:  coacheeLast,
			Email:     coacheeEmail,
			Phone:     coacheePhone,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Coachee %s %s added with id %d\n",
			strings.TrimSpace(coacheeFirst), strings.TrimSpace(coacheeLast), id)
		return nil
	},
}

var coacheeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List coachees by last name",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		coachees, err := st.ListCoachees()
		if err != nil {
			return err
		}
		printCoachees(cmd.OutOrStdout(), coachees, "No coachees yet — add one with 'ontoai coachee add'")
		return nil
	},
}

var coacheeSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find coachees by name, email or phone",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		coachees, err := st.SearchCoachees(strings.Join(args, " "))
		if err != nil {
			return err
		}
		printCoachees(cmd.OutOrStdout(), coachees, "No coachees match")
		return nil
	},
}

var coacheeShowCmd = &cobra.Command{
	Use:   "show <coachee-id>",
	Short: "Show a coachee with sessions, payments and scheduled sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "coachee")
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		c, err := st.GetCoachee(id)
		if err != nil {
			return err
		}
		sessions, err := st.GetSessionsByCoachee(id)
		if err != nil {
			return err
		}
		pay, err := st.GetPaymentSummaryByCoachee(id)
		if err != nil {
			return err
		}
		scheduled, err := st.ListScheduledByCoachee(id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Coachee:  %s (id %d)\n", c.FullName(), c.ID)
		fmt.Fprintf(out, "Email:    %s\n", orDash(c.Email))
		fmt.Fprintf(out, "Phone:    %s\n", c.Phone)
		fmt.Fprintf(out, "Payments: %d sessions, %d paid (%s), %d unpaid\n\n",
			pay.TotalSessions, pay.PaidSessions, formatMoney(pay.TotalPaid), pay.UnpaidSessions)

		fmt.Fprintf(out, "Sessions (%d):\n", len(sessions))
		for _, s := range sessions {
			fmt.Fprintf(out, "  #%-5d %s  %-6s %s\n", s.ID, s.Date.Format("2006-01-02 15:04"), paidLabel(s), truncate(s.Notes, 60))
		}

		var upcoming []store.ScheduledSession
		now := time.Now()
		for _, ss := range scheduled {
			if ss.Status == store.StatusScheduled && ss.ScheduledAt.After(now) {
				upcoming = append(upcoming, ss)
			}
		}
		if len(upcoming) > 0 {
			fmt.Fprintf(out, "\nUpcoming (%d):\n", len(upcoming))
			for _, ss := range upcoming {
				fmt.Fprintf(out, "  #%-5d %s  %s (%d min)\n", ss.ID, ss.ScheduledAt.Format("2006-01-02 15:04"), ss.Title, ss.Duration)
			}
		}
		return nil
	},
}

func printCoachees(w io.Writer, coachees []store.Coachee, empty string) {
	if len(coachees) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	fmt.Fprintf(w, "%-6s %-30s %-30s %s\n", "ID", "NAME", "EMAIL", "PHONE")
	fmt.Fprintln(w, strings.Repeat("─", 84))
	for _, c := range coachees {
		fmt.Fprintf(w, "%-6d %-30s %-30s %s\n", c.ID, truncate(c.FullName(), 30), orDash(c.Email), c.Phone)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func paidLabel(s store.Session) string {
	if s.Paid {
		return formatMoney(s.Amount)
	}
	return "unpaid"
}
