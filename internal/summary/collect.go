package summary

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ontoai/internal/ai"
	"ontoai/internal/store"
)

var (
	ErrNoSessions   = errors.New("no sessions in the selected date range")
	ErrInvalidRange = errors.New("start date is after end date")
	ErrNeedsCoachee = errors.New("summaries can only be saved for a single coachee")
)

// Source is the part of the gateway a summary reads from.
type Source interface {
	GetCoachee(id int64) (store.Coachee, error)
	GetSessionsByDateRange(coacheeID int64, from, to time.Time) ([]store.Session, error)
}

// Request selects the sessions to summarize. A CoacheeID of 0 means every
// coachee. From and To are calendar days, both included.
type Request struct {
	CoacheeID int64
	From      time.Time
	To        time.Time
}

type entry struct {
	session store.Session
	name    string
}

// Collection is the chronological set of sessions a prompt is built from.
type Collection struct {
	Request
	// Coachee is nil when the request spans every coachee.
	Coachee  *store.Coachee
	Sessions []store.Session
	Document string
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Second)
}

// Collect gathers the sessions for req. It returns ErrNoSessions when the
// range is empty so no provider call is ever attempted for nothing.
func Collect(ctx context.Context, src Source, req Request) (*Collection, error) {
	from, to := startOfDay(req.From), endOfDay(req.To)
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	c := &Collection{Request: Request{CoacheeID: req.CoacheeID, From: from, To: to}}
	if req.CoacheeID > 0 {
		co, err := src.GetCoachee(req.CoacheeID)
		if err != nil {
			return nil, fmt.Errorf("load coachee: %w", err)
		}
		c.Coachee = &co
	}

	sessions, err := src.GetSessionsByDateRange(req.CoacheeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	names := make(map[int64]string)
	var entries []entry
	for _, s := range sessions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.Coachee != nil {
			entries = append(entries, entry{session: s, name: c.Coachee.FullName()})
			continue
		}
		name, ok := names[s.CoacheeID]
		if !ok {
			co, err := src.GetCoachee(s.CoacheeID)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("load coachee %d: %w", s.CoacheeID, err)
			}
			name = co.FullName()
			names[s.CoacheeID] = name
		}
		entries = append(entries, entry{session: s, name: name})
	}

	if len(entries) == 0 {
		return nil, ErrNoSessions
	}
	for _, e := range entries {
		c.Sessions = append(c.Sessions, e.session)
	}
	c.Document = c.render(entries)
	return c, nil
}

func (c *Collection) render(entries []entry) string {
	var sb strings.Builder
	if c.Coachee != nil {
		fmt.Fprintf(&sb, "Sesiones de coaching de %s:\n\n", c.Coachee.FullName())
	} else {
		sb.WriteString("Sesiones de coaching de todos los coachees:\n\n")
	}
	for i, e := range entries {
		date := e.session.Date.Format(store.TimeLayout)
		if c.Coachee != nil {
			fmt.Fprintf(&sb, "Sesión %d - %s:\n%s\n\n", i+1, date, e.session.Notes)
		} else {
			fmt.Fprintf(&sb, "Sesión %d - %s - %s:\n%s\n\n", i+1, e.name, date, e.session.Notes)
		}
	}
	return sb.String()
}

// SessionIDs lists the collected session ids, comma separated.
func (c *Collection) SessionIDs() string {
	ids := make([]string, len(c.Sessions))
	for i, s := range c.Sessions {
		ids[i] = strconv.FormatInt(s.ID, 10)
	}
	return strings.Join(ids, ",")
}

func BuildPrompt(k Kind, c *Collection) string {
	return k.Prompt(len(c.Sessions), c.Document)
}

// EstimateTokens approximates the prompt size for the named provider.
func EstimateTokens(prompt, provider string) (tokens, limit int) {
	p, ok := ai.GetProfile(provider)
	if !ok {
		return ai.EstimateTokens(prompt, ai.FamilyGPT), 0
	}
	return ai.EstimateTokens(prompt, p.Family), p.ContextLimit
}

// NewSummary builds the record to persist for generated text.
func NewSummary(k Kind, c *Collection, text, provider string) (store.Summary, error) {
	if c.Coachee == nil {
		return store.Summary{}, ErrNeedsCoachee
	}
	from, to := c.From.Format(store.DateLayout), c.To.Format(store.DateLayout)
	return store.Summary{
		CoacheeID:  c.Coachee.ID,
		Title:      fmt.Sprintf("%s - %s (%s a %s)", k.Label, c.Coachee.FullName(), from, to),
		Type:       k.Label,
		Content:    text,
		SessionIDs: c.SessionIDs(),
		DateFrom:   startOfDay(c.From),
		DateTo:     startOfDay(c.To),
		CreatedAt:  time.Now(),
		AIProvider: provider,
	}, nil
}
