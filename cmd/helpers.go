package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"ontoai/internal/ai"
	"ontoai/internal/store"

	"github.com/atotto/clipboard"
)

const maxNotesFile = 100000

func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	return st, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}

// parseDay reads a YYYY-MM-DD date in local time. "today" is accepted.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "today") || strings.EqualFold(s, "hoy") {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation(store.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

var dateTimeLayouts = []string{
	store.TimeLayout,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date/time %q (want YYYY-MM-DD HH:MM)", s)
}

// readNotes takes notes from a file when path is set, otherwise from args.
func readNotes(args []string, path string) (string, error) {
	if path == "" {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(os.Stdin, maxNotesFile+1))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}
	if len(data) > maxNotesFile {
		return "", fmt.Errorf("notes file is larger than %d bytes", maxNotesFile)
	}
	return strings.TrimSpace(string(data)), nil
}

func copyToClipboard(w io.Writer, text string) {
	if err := clipboard.WriteAll(text); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not copy to clipboard: %v\n", err)
		return
	}
	fmt.Fprintln(w, "Copied to clipboard!")
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

func formatTokens(n int) string {
	switch {
	case n <= 0:
		return "-"
	case n >= 1000000:
		return fmt.Sprintf("%dM", n/1000000)
	case n >= 1000:
		return fmt.Sprintf("%dK", n/1000)
	}
	return strconv.Itoa(n)
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// providerFor builds the named provider (the configured one when name is
// empty) from its stored credentials.
func providerFor(st *store.Store, name string) (ai.Provider, error) {
	if name == "" {
		n, err := st.AIProvider()
		if err != nil {
			return nil, err
		}
		name = n
	}

	pc, ok, err := st.ProviderConfig(name)
	if err != nil {
		return nil, err
	}
	if !ok && name == ai.Mixtral {
		// Mixtral runs on Groq and can share its key.
		if groq, gok, gerr := st.ProviderConfig(ai.GroqCloud); gerr == nil && gok {
			pc = store.ProviderConfig{APIKey: groq.APIKey}
		}
	}

	c := ai.Config{APIKey: pc.APIKey, Model: pc.Model, ModelPath: pc.ModelPath, Timeout: cfg.AITimeout}
	if name == ai.GPT4All {
		c.BaseURL = cfg.GPT4AllURL
	}
	return ai.New(name, c)
}
