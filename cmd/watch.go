package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ontoai/internal/schedule"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run in the foreground and deliver session reminders",
	Long: `watch checks scheduled sessions once a minute and prints a reminder when a
session's lead time is reached. Reminders are also sent to Telegram when
ONTOAI_TELEGRAM_TOKEN and ONTOAI_TELEGRAM_CHAT_ID are set. Stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		notifiers := schedule.MultiNotifier{schedule.NewConsoleNotifier(out, cfg.Bell)}
		if cfg.TelegramEnabled() {
			tg, err := schedule.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Telegram reminders disabled: %v\n", err)
			} else {
				notifiers = append(notifiers, tg)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		upcoming, err := st.ListUpcoming(time.Now(), 5)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Watching %s for reminders every %s (%d upcoming sessions)\n", cfg.DBPath, cfg.PollInterval, len(upcoming))
		if len(upcoming) > 0 {
			if err := printScheduled(out, st, upcoming, ""); err != nil {
				return err
			}
		}

		poller := schedule.NewPoller(st, notifiers, cfg.PollInterval)
		if err := poller.Run(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Stopped")
		return nil
	},
}
