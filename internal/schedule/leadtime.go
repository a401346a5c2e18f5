package schedule

import (
	"fmt"
	"strings"
	"time"
)

const DefaultLeadLabel = "30 minutos antes"

type leadTime struct {
	label     string
	shorthand []string
	d         time.Duration
}

var leadTimes = []leadTime{
	{"5 minutos antes", []string{"5m"}, 5 * time.Minute},
	{"15 minutos antes", []string{"15m"}, 15 * time.Minute},
	{"30 minutos antes", []string{"30m"}, 30 * time.Minute},
	{"1 hora antes", []string{"1h", "60m"}, time.Hour},
	{"1 día antes", []string{"1d", "24h"}, 24 * time.Hour},
}

// LeadTime returns how long before the session the reminder fires.
// Unknown labels get the 30 minute default.
func LeadTime(label string) time.Duration {
	for _, lt := range leadTimes {
		if lt.label == label {
			return lt.d
		}
	}
	return 30 * time.Minute
}

func Labels() []string {
	out := make([]string, len(leadTimes))
	for i, lt := range leadTimes {
		out[i] = lt.label
	}
	return out
}

// ParseLeadTime accepts a canonical label or its shorthand ("15m", "1h",
// "1d") and returns the canonical label.
func ParseLeadTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLeadLabel, nil
	}
	for _, lt := range leadTimes {
		if strings.EqualFold(s, lt.label) {
			return lt.label, nil
		}
		for _, sh := range lt.shorthand {
			if strings.EqualFold(s, sh) {
				return lt.label, nil
			}
		}
	}
	return "", fmt.Errorf("unknown lead time %q (use 5m, 15m, 30m, 1h or 1d)", s)
}
