package cmd

import (
	"fmt"
	"io"
	"strings"

	"ontoai/internal/store"

	"github.com/spf13/cobra"
)

var paymentsCoachee int64

func init() {
	rootCmd.AddCommand(paymentsCmd)
	paymentsCmd.Flags().Int64Var(&paymentsCoachee, "coachee", 0, "only this coachee")
}

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Show paid and pending totals per coachee",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		if paymentsCoachee > 0 {
			c, err := st.GetCoachee(paymentsCoachee)
			if err != nil {
				return err
			}
			p, err := st.GetPaymentSummaryByCoachee(c.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n", c.FullName())
			fmt.Fprintf(out, "  Sessions: %d (%d paid, %d unpaid)\n", p.TotalSessions, p.PaidSessions, p.UnpaidSessions)
			fmt.Fprintf(out, "  Paid:     %s\n", formatMoney(p.TotalPaid))
			fmt.Fprintf(out, "  Pending:  %s\n", formatMoney(p.TotalPending))
			return nil
		}

		rows, err := st.ListPaymentSummaries()
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintln(out, "No coachees yet")
			return nil
		}

		printPayments(out, rows)
		return nil
	},
}

func printPayments(out io.Writer, rows []store.CoacheePayments) {
	fmt.Fprintf(out, "%-6s %-30s %8s %6s %8s %12s %12s\n", "ID", "COACHEE", "SESSIONS", "PAID", "UNPAID", "TOTAL PAID", "PENDING")
	fmt.Fprintln(out, strings.Repeat("─", 89))
	var total store.PaymentSummary
	for _, r := range rows {
		p := r.Summary
		total.Add(p)
		fmt.Fprintf(out, "%-6d %-30s %8d %6d %8d %12s %12s\n",
			r.Coachee.ID, truncate(r.Coachee.FullName(), 30), p.TotalSessions, p.PaidSessions, p.UnpaidSessions,
			formatMoney(p.TotalPaid), formatMoney(p.TotalPending))
	}
	fmt.Fprintln(out, strings.Repeat("─", 89))
	fmt.Fprintf(out, "%-6s %-30s %8d %6d %8d %12s %12s\n", "", "TOTAL",
		total.TotalSessions, total.PaidSessions, total.UnpaidSessions, formatMoney(total.TotalPaid), formatMoney(total.TotalPending))
}
