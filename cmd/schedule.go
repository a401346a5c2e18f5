package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"ontoai/internal/schedule"
	"ontoai/internal/store"

	"github.com/spf13/cobra"
)

var durationChoices = []int{30, 45, 60, 90, 120}

var (
	schedAt       string
	schedTitle    string
	schedNotes    string
	schedDuration int
	schedNoNotify bool
	schedLead     string
	schedStatus   string
	schedCoachee  int64
	schedLimit    int
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleDayCmd)
	scheduleCmd.AddCommand(scheduleUpcomingCmd)
	scheduleCmd.AddCommand(newStatusCmd("complete", "Mark a scheduled session as completed", store.StatusCompleted))
	scheduleCmd.AddCommand(newStatusCmd("cancel", "Cancel a scheduled session", store.StatusCancelled))
	scheduleCmd.AddCommand(scheduleDeleteCmd)

	f := scheduleAddCmd.Flags()
	f.StringVar(&schedAt, "at", "", "date and time, YYYY-MM-DD HH:MM (required)")
	f.StringVar(&schedTitle, "title", store.DefaultTitle, "session title")
	f.StringVar(&schedNotes, "notes", "", "preparation notes")
	f.IntVar(&schedDuration, "duration", store.DefaultDuration, "duration in minutes (30, 45, 60, 90, 120)")
	f.BoolVar(&schedNoNotify, "no-notify", false, "do not send a reminder")
	f.StringVar(&schedLead, "lead", schedule.DefaultLeadLabel, "reminder lead time: 5m, 15m, 30m, 1h, 1d")

	scheduleListCmd.Flags().StringVar(&schedStatus, "status", "", "scheduled, completed or cancelled")
	scheduleListCmd.Flags().Int64Var(&schedCoachee, "coachee", 0, "only this coachee")
	scheduleUpcomingCmd.Flags().IntVar(&schedLimit, "limit", 10, "maximum sessions to show")
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Plan future sessions and their reminders",
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add <coachee-id>",
	Short: "Schedule a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coacheeID, err := parseID(args[0], "coachee")
		if err != nil {
			return err
		}
		if schedAt == "" {
			return fmt.Errorf("--at is required")
		}
		when, err := parseDateTime(schedAt)
		if err != nil {
			return err
		}
		if !validDuration(schedDuration) {
			return fmt.Errorf("duration must be one of %v minutes", durationChoices)
		}
		lead, err := schedule.ParseLeadTime(schedLead)
		if err != nil {
			return err
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
		id, err := st.AddScheduledSession(store.ScheduledSession{
			CoacheeID:     coacheeID,
			ScheduledAt:   when,
			Title:         schedTitle,
			Notes:         schedNotes,
			Duration:      schedDuration,
			NotifyEnabled: !schedNoNotify,
			NotifyTime:    lead,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Scheduled session %d with %s on %s\n", id, c.FullName(), when.Format("2006-01-02 15:04"))
		if !schedNoNotify {
			fmt.Fprintf(out, "Reminder: %s (keep 'ontoai watch' running)\n", lead)
			if when.Add(-schedule.LeadTime(lead)).Before(time.Now()) {
				fmt.Fprintln(out, "Warning: the reminder time has already passed; no reminder will fire")
			}
		}
		return nil
	},
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		var sessions []store.ScheduledSession
		switch {
		case schedCoachee > 0:
			sessions, err = st.ListScheduledByCoachee(schedCoachee)
		case schedStatus != "":
			sessions, err = st.ListScheduledByStatus(store.ScheduledStatus(schedStatus))
		default:
			sessions, err = st.ListScheduledSessions()
		}
		if err != nil {
			return err
		}
		if schedCoachee > 0 && schedStatus != "" {
			sessions = filterStatus(sessions, store.ScheduledStatus(schedStatus))
		}
		return printScheduled(cmd.OutOrStdout(), st, sessions, "Nothing scheduled")
	},
}

var scheduleDayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Show the sessions planned for one day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var arg string
		if len(args) == 1 {
			arg = args[0]
		}
		d, err := parseDay(arg)
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.ListScheduledByDate(d)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", d.Format("Monday 2006-01-02"))
		return printScheduled(cmd.OutOrStdout(), st, sessions, "No sessions on this day")
	},
}

var scheduleUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show the next scheduled sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.ListUpcoming(time.Now(), schedLimit)
		if err != nil {
			return err
		}
		return printScheduled(cmd.OutOrStdout(), st, sessions, "No upcoming sessions")
	},
}

func newStatusCmd(use, short string, status store.ScheduledStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <scheduled-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "scheduled session")
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.UpdateScheduledStatus(id, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled session %d is now %s\n", id, status)
			return nil
		},
	}
}

var scheduleDeleteCmd = &cobra.Command{
	Use:   "delete <scheduled-id>",
	Short: "Delete a scheduled session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "scheduled session")
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteScheduledSession(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scheduled session %d deleted\n", id)
		return nil
	},
}

func validDuration(d int) bool {
	for _, c := range durationChoices {
		if c == d {
			return true
		}
	}
	return false
}

func filterStatus(in []store.ScheduledSession, status store.ScheduledStatus) []store.ScheduledSession {
	var out []store.ScheduledSession
	for _, ss := range in {
		if ss.Status == status {
			out = append(out, ss)
		}
	}
	return out
}

func printScheduled(w io.Writer, st *store.Store, sessions []store.ScheduledSession, empty string) error {
	if len(sessions) == 0 {
		fmt.Fprintln(w, empty)
		return nil
	}

	names := make(map[int64]string)
	fmt.Fprintf(w, "%-6s %-17s %-24s %-26s %-5s %-10s %s\n", "ID", "WHEN", "COACHEE", "TITLE", "MIN", "STATUS", "REMINDER")
	fmt.Fprintln(w, strings.Repeat("─", 110))
	for _, ss := range sessions {
		name, ok := names[ss.CoacheeID]
		if !ok {
			c, err := st.GetCoachee(ss.CoacheeID)
			switch {
			case err == nil:
				name = c.FullName()
			case isNotFound(err):
				name = "(unknown)"
			default:
				return err
			}
			names[ss.CoacheeID] = name
		}
		fmt.Fprintf(w, "%-6d %-17s %-24s %-26s %-5d %-10s %s\n",
			ss.ID, ss.ScheduledAt.Format("2006-01-02 15:04"), truncate(name, 24), truncate(ss.Title, 26),
			ss.Duration, ss.Status, reminderLabel(ss))
	}
	return nil
}

func reminderLabel(ss store.ScheduledSession) string {
	switch {
	case !ss.NotifyEnabled:
		return "off"
	case ss.Notified:
		return "sent"
	case ss.NotifyTime == "":
		return schedule.DefaultLeadLabel
	}
	return ss.NotifyTime
}
