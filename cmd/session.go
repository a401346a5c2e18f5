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
	sessionFile   string
	sessionDate   string
	sessionPaid   bool
	sessionAmount float64
	payAmount     float64
)

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLogCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionPayCmd)
	sessionCmd.AddCommand(sessionUnpayCmd)
	sessionCmd.AddCommand(sessionUnpaidCmd)

	sessionLogCmd.Flags().StringVar(&sessionFile, "file", "", "read notes from a file ('-' for stdin)")
	sessionLogCmd.Flags().StringVar(&sessionDate, "date", "", "session date/time, YYYY-MM-DD HH:MM (default now)")
	sessionLogCmd.Flags().BoolVar(&sessionPaid, "paid", false, "mark the session as paid")
	sessionLogCmd.Flags().Float64Var(&sessionAmount, "amount", 0, "amount paid (default: configured session price)")
	sessionPayCmd.Flags().Float64Var(&payAmount, "amount", 0, "amount paid (default: configured session price)")
}

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions"},
	Short:   "Log sessions and track their payment",
}

var sessionLogCmd = &cobra.Command{
	Use:   "log <coachee-id> [notes...]",
	Short: "Save notes for a coaching session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coacheeID, err := parseID(args[0], "coachee")
		if err != nil {
			return err
		}
		notes, err := readNotes(args[1:], sessionFile)
		if err != nil {
			return err
		}

		var when time.Time
		if sessionDate != "" {
			if when, err = parseDateTime(sessionDate); err != nil {
				return err
			}
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		c, err := st.GetCoachee(coacheeID)
		if err != nil {
			return err
		}

		amount := sessionAmount
		if sessionPaid && !cmd.Flags().Changed("amount") {
			if amount, err = st.SessionPrice(); err != nil {
				return err
			}
		}

		id, err := st.AddSession(store.Session{
			CoacheeID: coacheeID,
			Date:      when,
			Notes:     notes,
			Paid:      sessionPaid,
			Amount:    amount,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %d saved for %s\n", id, c.FullName())
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list <coachee-id>",
	Short: "List a coachee's sessions, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coacheeID, err := parseID(args[0], "coachee")
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.GetSessionsByCoachee(coacheeID)
		if err != nil {
			return err
		}
		printSessions(cmd.OutOrStdout(), sessions, "No sessions yet — log one with 'ontoai session log'")
		return nil
	},
}

var sessionPayCmd = &cobra.Command{
	Use:   "pay <session-id>",
	Short: "Mark a session as paid",
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

		amount := payAmount
		if !cmd.Flags().Changed("amount") {
			if amount, err = st.SessionPrice(); err != nil {
				return err
			}
		}
		if err := st.UpdateSessionPayment(id, true, amount); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %d marked paid (%s)\n", id, formatMoney(amount))
		return nil
	},
}

var sessionUnpayCmd = &cobra.Command{
	Use:   "unpay <session-id>",
	Short: "Mark a session as unpaid",
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

		if err := st.UpdateSessionPayment(id, false, 0); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %d marked unpaid\n", id)
		return nil
	},
}

var sessionUnpaidCmd = &cobra.Command{
	Use:   "unpaid <coachee-id>",
	Short: "List a coachee's unpaid sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coacheeID, err := parseID(args[0], "coachee")
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.GetUnpaidSessionsByCoachee(coacheeID)
		if err != nil {
			return err
		}
		printSessions(cmd.OutOrStdout(), sessions, "Nothing pending")
		return nil
	},
}

func printSessions(w io.Writer, sessions []store.Session, empty string) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	fmt.Fprintf(w, "%-6s %-17s %-8s %s\n", "ID", "DATE", "PAID", "NOTES")
	fmt.Fprintln(w, strings.Repeat("─", 84))
	for _, s := range sessions {
		fmt.Fprintf(w, "%-6d %-17s %-8s %s\n", s.ID, s.Date.Format("2006-01-02 15:04"), paidLabel(s), truncate(s.Notes, 50))
	}
}
