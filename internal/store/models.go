package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layouts used for every timestamp column. Values are stored as local
// wall-clock text so that lexical order matches chronological order.
const (
	TimeLayout = "2006-01-02 15:04:05"
	DateLayout = "2006-01-02"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage error")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError reports a required field that is missing or malformed.
// It is raised before any statement reaches the database.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s looks like an email address. Empty is valid.
func ValidEmail(s string) bool {
	return s == "" || emailRe.MatchString(s)
}

type Coachee struct {
	ID        int64  `json:"id"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"telefono"`
}

func (c Coachee) FullName() string {
	return c.FirstName + " " + c.LastName
}

func (c Coachee) Validate() error {
	switch {
	case strings.TrimSpace(c.FirstName) == "":
		return invalid("first name", "required")
	case strings.TrimSpace(c.LastName) == "":
		return invalid("last name", "required")
	case strings.TrimSpace(c.Phone) == "":
		return invalid("phone", "required")
	case !ValidEmail(strings.TrimSpace(c.Email)):
		return invalid("email", "malformed address")
	}
	return nil
}

// Session is a logged coaching meeting. Amount only carries meaning while
// Paid is true.
type Session struct {
	ID        int64     `json:"id"`
	CoacheeID int64     `json:"coachee_id"`
	Date      time.Time `json:"fecha"`
	Notes     string    `json:"notas"`
	Paid      bool      `json:"pagado"`
	Amount    float64   `json:"monto"`
}

func (s Session) Validate() error {
	if s.CoacheeID <= 0 {
		return invalid("coachee", "required")
	}
	if strings.TrimSpace(s.Notes) == "" {
		return invalid("notes", "required")
	}
	return validPayment(s.Paid, s.Amount)
}

func validPayment(paid bool, amount float64) error {
	if paid && amount < 0 {
		return invalid("amount", "must not be negative")
	}
	return nil
}

type ScheduledStatus string

const (
	StatusScheduled ScheduledStatus = "scheduled"
	StatusCompleted ScheduledStatus = "completed"
	StatusCancelled ScheduledStatus = "cancelled"
)

func (s ScheduledStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

const (
	DefaultDuration = 60
	DefaultTitle    = "Sesión de coaching"
)

// ScheduledSession is a future session with its reminder configuration.
// Notified is a one-shot latch; it only flips while Status is scheduled.
type ScheduledSession struct {
	ID            int64           `json:"id"`
	CoacheeID     int64           `json:"coachee_id"`
	ScheduledAt   time.Time       `json:"scheduled_time"`
	Title         string          `json:"title"`
	Notes         string          `json:"notes"`
	Duration      int             `json:"duration"`
	NotifyEnabled bool            `json:"notify_enabled"`
	NotifyTime    string          `json:"notify_time,omitempty"`
	Status        ScheduledStatus `json:"status"`
	Notified      bool            `json:"notified"`
}

func (s ScheduledSession) Validate() error {
	if s.CoacheeID <= 0 {
		return invalid("coachee", "required")
	}
	if s.ScheduledAt.IsZero() {
		return invalid("scheduled time", "required")
	}
	if s.Duration < 0 {
		return invalid("duration", "must be positive")
	}
	if s.Status != "" && !s.Status.Valid() {
		return invalid("status", fmt.Sprintf("unknown status %q", s.Status))
	}
	return nil
}

// Summary is an AI-generated synthesis of a coachee's notes over a date range.
type Summary struct {
	ID         int64     `json:"id"`
	CoacheeID  int64     `json:"coachee_id"`
	Title      string    `json:"title"`
	Type       string    `json:"summary_type"`
	Content    string    `json:"content"`
	SessionIDs string    `json:"session_ids,omitempty"`
	DateFrom   time.Time `json:"date_from"`
	DateTo     time.Time `json:"date_to"`
	CreatedAt  time.Time `json:"created_at"`
	AIProvider string    `json:"ai_provider"`
}

func (s Summary) Validate() error {
	switch {
	case s.CoacheeID <= 0:
		return invalid("coachee", "required")
	case strings.TrimSpace(s.Content) == "":
		return invalid("content", "required")
	case strings.TrimSpace(s.Type) == "":
		return invalid("summary type", "required")
	}
	return nil
}

type SummaryFilter struct {
	CoacheeID int64
	Type      string
}

type PaymentSummary struct {
	TotalSessions  int     `json:"total_sessions"`
	PaidSessions   int     `json:"paid_sessions"`
	UnpaidSessions int     `json:"unpaid_sessions"`
	TotalPaid      float64 `json:"total_paid"`
	TotalPending   float64 `json:"total_pending"`
}

// Add accumulates o into p.
func (p *PaymentSummary) Add(o PaymentSummary) {
	p.TotalSessions += o.TotalSessions
	p.PaidSessions += o.PaidSessions
	p.UnpaidSessions += o.UnpaidSessions
	p.TotalPaid += o.TotalPaid
	p.TotalPending += o.TotalPending
}

type CoacheePayments struct {
	Coachee Coachee        `json:"coachee"`
	Summary PaymentSummary `json:"summary"`
}
