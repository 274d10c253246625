// Package notice contains the pure domain model for suspicious hearing
// notices. This is part of the Functional Core - no I/O, only data and
// pure functions.
package notice

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action types for hearing announcements.
const (
	ActionHearingScheduled   = "HEARING_SCHEDULED"
	ActionHearingRescheduled = "HEARING_RESCHEDULED"
	ActionHearingTimeChanged = "HEARING_TIME_CHANGED"
)

// Date is a calendar date with no time-of-day component. It serializes
// as "2006-01-02", which is the interchange format shared with the
// notice log and the review dataset.
type Date struct {
	time.Time
}

// NewDate builds a Date at UTC midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// DaysUntil returns the whole-day difference between d and other.
// Negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// String returns the interchange form.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MarshalJSON encodes the date as "2006-01-02", or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "2006-01-02" strings and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// HearingAction is one hearing-related action in a bill's timeline,
// as extracted upstream by the timeline builder.
type HearingAction struct {
	AnnouncementDate string `json:"announcement_date"`
	ActionType       string `json:"action_type"`
	HearingDate      string `json:"hearing_date"`
	NoticeDays       int    `json:"notice_days"`
}

// Notice records one hearing announcement that may be a clerical
// correction or an actual notice-rule violation. These cases occur when
// a hearing is announced with insufficient notice (same-day or
// retroactively) and the interpretation is ambiguous.
//
// Notices are created by the upstream detection pass and appended to
// the notice log exactly once; the log copy is never mutated. The
// review dataset works on projected copies.
type Notice struct {
	// Identity
	BillID      string `json:"bill_id"`
	CommitteeID string `json:"committee_id"`
	Session     string `json:"session"`
	BillURL     string `json:"bill_url"`

	// The flagged hearing
	AnnouncementDate     Date   `json:"announcement_date"`
	ScheduledHearingDate Date   `json:"scheduled_hearing_date"`
	NoticeDays           int    `json:"notice_days"` // zero or negative for flagged cases
	ActionType           string `json:"action_type"`
	RawActionText        string `json:"raw_action_text"`

	// Context
	AllHearingActions     []HearingAction `json:"all_hearing_actions"`
	HadPriorAnnouncement  bool            `json:"had_prior_announcement"`
	PriorBestNoticeDays   *int            `json:"prior_best_notice_days"`
	PriorAnnouncementDate *Date           `json:"prior_announcement_date"`
	PriorScheduledDate    *Date           `json:"prior_scheduled_date"`

	// Timeline position
	ActionDate                  Date  `json:"action_date"`
	HearingActuallyOccurred     *bool `json:"hearing_actually_occurred"`
	DaysBetweenActionAndHearing int   `json:"days_between_action_and_hearing"`

	// Signature, computed once and cached on the record
	Signature *Signature `json:"signature"`

	// Review state
	DetectedAt         time.Time `json:"detected_at"`
	Reviewed           bool      `json:"reviewed"`
	IsClerical         *bool     `json:"is_clerical"`
	ReviewerNotes      string    `json:"reviewer_notes"`
	WhitelistPatternID string    `json:"whitelist_pattern_id,omitempty"`
}

// Validate checks the notice-days invariant: notice_days must equal the
// whole-day difference between announcement and scheduled hearing.
func (n *Notice) Validate() error {
	if got := n.AnnouncementDate.DaysUntil(n.ScheduledHearingDate); got != n.NoticeDays {
		return fmt.Errorf("notice %s: notice_days %d does not match date difference %d",
			n.BillID, n.NoticeDays, got)
	}
	return nil
}

// IsRetroactive reports whether the announcement was recorded after the
// hearing occurred.
func (n *Notice) IsRetroactive() bool {
	return n.NoticeDays < 0
}

// IsSameDay reports whether the hearing was announced on its own day.
func (n *Notice) IsSameDay() bool {
	return n.NoticeDays == 0
}
