package notice

import (
	"fmt"
	"strings"
)

// locationKeywords are room and building identifiers that show up in
// announcement text when only the venue changed.
var locationKeywords = []string{"room", "a-2", "a-1", "gardner"}

// Signature is the categorical feature bundle computed from a Notice.
// It drives both review-dataset grouping (via CompositeKey) and
// whitelist pattern matching (via Field lookups).
type Signature struct {
	// Notice characteristics
	NoticeDays     int    `json:"notice_days"`
	NoticeCategory string `json:"notice_category"`

	// Action characteristics
	ActionType    string `json:"action_type"`
	IsRetroactive bool   `json:"is_retroactive"`
	IsSameDay     bool   `json:"is_same_day"`

	// Prior context
	HadPriorValidNotice bool    `json:"had_prior_valid_notice"`
	PriorNoticeCategory *string `json:"prior_notice_category"`
	PriorNoticeDays     *int    `json:"prior_notice_days"`

	// Timeline pattern
	TimeBetweenHearingAndAction int  `json:"time_between_hearing_and_action"`
	HadSameDayTimeChange        bool `json:"had_same_day_time_change"`
	TotalHearingActions         int  `json:"total_hearing_actions"`

	// Text patterns
	TextContainsTime     bool `json:"text_contains_time"`
	TextContainsVirtual  bool `json:"text_contains_virtual"`
	TextContainsLocation bool `json:"text_contains_location"`

	// Committee characteristics
	CommitteeID   string `json:"committee_id"`
	CommitteeType string `json:"committee_type"`

	// Temporal patterns
	DayOfWeekAnnounced string `json:"day_of_week_announced"`
	DayOfWeekHearing   string `json:"day_of_week_hearing"`
	Month              int    `json:"month"`

	// Composite grouping key
	CompositeKey string `json:"composite_key"`
}

// CategorizeNoticeDays buckets a notice lead time into a fixed ordinal
// category. nil means no lead time is known.
func CategorizeNoticeDays(days *int) string {
	if days == nil {
		return "unknown"
	}
	d := *days
	switch {
	case d < -5:
		return "retroactive_6plus_days"
	case d < 0:
		return fmt.Sprintf("retroactive_%d_day%s", -d, plural(-d))
	case d == 0:
		return "same_day"
	case d < 3:
		return fmt.Sprintf("%d_day%s", d, plural(d))
	case d < 10:
		return fmt.Sprintf("%d_days", d)
	default:
		return "10plus_days"
	}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// ComputeSignature derives the pattern signature for a notice. It is
// deterministic and total: identical notices always yield identical
// signatures, including the composite key.
func ComputeSignature(n *Notice) *Signature {
	text := strings.ToLower(n.RawActionText)

	var priorCategory *string
	if n.HadPriorAnnouncement {
		c := CategorizeNoticeDays(n.PriorBestNoticeDays)
		priorCategory = &c
	}

	hearingDate := n.ScheduledHearingDate.String()
	timeChange := false
	for _, a := range n.AllHearingActions {
		if a.ActionType == ActionHearingTimeChanged && a.HearingDate == hearingDate {
			timeChange = true
			break
		}
	}

	containsLocation := false
	for _, word := range locationKeywords {
		if strings.Contains(text, word) {
			containsLocation = true
			break
		}
	}

	committeeType := "?"
	if n.CommitteeID != "" {
		committeeType = n.CommitteeID[:1]
	}

	sig := &Signature{
		NoticeDays:     n.NoticeDays,
		NoticeCategory: CategorizeNoticeDays(&n.NoticeDays),

		ActionType:    n.ActionType,
		IsRetroactive: n.NoticeDays < 0,
		IsSameDay:     n.NoticeDays == 0,

		HadPriorValidNotice: n.HadPriorAnnouncement,
		PriorNoticeCategory: priorCategory,
		PriorNoticeDays:     n.PriorBestNoticeDays,

		TimeBetweenHearingAndAction: n.DaysBetweenActionAndHearing,
		HadSameDayTimeChange:        timeChange,
		TotalHearingActions:         len(n.AllHearingActions),

		TextContainsTime:     strings.Contains(text, "time"),
		TextContainsVirtual:  strings.Contains(text, "virtual"),
		TextContainsLocation: containsLocation,

		CommitteeID:   n.CommitteeID,
		CommitteeType: committeeType,

		DayOfWeekAnnounced: n.AnnouncementDate.Weekday().String(),
		DayOfWeekHearing:   n.ScheduledHearingDate.Weekday().String(),
		Month:              int(n.AnnouncementDate.Month()),
	}

	priorCat := "none"
	if sig.PriorNoticeCategory != nil {
		priorCat = *sig.PriorNoticeCategory
	}
	change := "notimechange"
	if sig.HadSameDayTimeChange {
		change = "timechange"
	}
	sig.CompositeKey = fmt.Sprintf("%s_%s_prior_%s_%s", sig.NoticeCategory, sig.ActionType, priorCat, change)

	return sig
}

// EnsureSignature returns the cached signature, computing and storing
// it on the record when absent.
func (n *Notice) EnsureSignature() *Signature {
	if n.Signature == nil {
		n.Signature = ComputeSignature(n)
	}
	return n.Signature
}

// Field looks up a signature value by its interchange name, as used in
// pattern criteria. The second return is false for unknown names so
// that pattern matching fails closed.
func (s *Signature) Field(name string) (any, bool) {
	switch name {
	case "notice_days":
		return s.NoticeDays, true
	case "notice_category":
		return s.NoticeCategory, true
	case "action_type":
		return s.ActionType, true
	case "is_retroactive":
		return s.IsRetroactive, true
	case "is_same_day":
		return s.IsSameDay, true
	case "had_prior_valid_notice":
		return s.HadPriorValidNotice, true
	case "prior_notice_category":
		if s.PriorNoticeCategory == nil {
			return nil, true
		}
		return *s.PriorNoticeCategory, true
	case "prior_notice_days":
		if s.PriorNoticeDays == nil {
			return nil, true
		}
		return *s.PriorNoticeDays, true
	case "time_between_hearing_and_action":
		return s.TimeBetweenHearingAndAction, true
	case "had_same_day_time_change":
		return s.HadSameDayTimeChange, true
	case "total_hearing_actions":
		return s.TotalHearingActions, true
	case "text_contains_time":
		return s.TextContainsTime, true
	case "text_contains_virtual":
		return s.TextContainsVirtual, true
	case "text_contains_location":
		return s.TextContainsLocation, true
	case "committee_id":
		return s.CommitteeID, true
	case "committee_type":
		return s.CommitteeType, true
	case "day_of_week_announced":
		return s.DayOfWeekAnnounced, true
	case "day_of_week_hearing":
		return s.DayOfWeekHearing, true
	case "month":
		return s.Month, true
	case "composite_key":
		return s.CompositeKey, true
	default:
		return nil, false
	}
}
