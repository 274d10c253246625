// Package aggregate groups logged suspicious notices by signature into
// the review dataset consumed by the review loop and the pattern
// learner. Pure functions only; persistence lives in the adapters.
package aggregate

import "time"

// Review determinations as stored in the dataset document.
const (
	DeterminationPending   = "pending"
	DeterminationClerical  = "clerical"
	DeterminationViolation = "violation"
)

// Dataset is the review dataset document: a derived, session-scoped
// projection of the notice log. It is never the source of truth - the
// decision log is - and rebuilding it from log + decisions is
// idempotent.
type Dataset struct {
	Metadata Metadata    `json:"metadata"`
	Groups   []*GroupDoc `json:"signature_groups"`
	Outliers []*CaseDoc  `json:"outliers"`
}

// Metadata carries dataset-level counts and provenance.
type Metadata struct {
	GeneratedAt        time.Time `json:"generated_at"`
	TotalCases         int       `json:"total_cases"`
	SignatureGroups    int       `json:"signature_groups"`
	OutlierGroups      int       `json:"outlier_groups"`
	SessionsCovered    []string  `json:"sessions_covered"`
	CommitteesAffected []string  `json:"committees_affected"`
	UnreviewedCount    int       `json:"unreviewed_count"`
	ReviewedCount      int       `json:"reviewed_count"`
}

// GroupDoc is one signature group in the dataset document.
type GroupDoc struct {
	SignatureID        string          `json:"signature_id"`
	PatternDescription string          `json:"pattern_description"`
	NoticeDays         *int            `json:"notice_days"`
	Characteristics    Characteristics `json:"characteristics"`
	CaseCount          int             `json:"case_count"`
	ReviewedCount      int             `json:"reviewed_count"`
	ClericalCount      int             `json:"clerical_count"`
	ViolationCount     int             `json:"violation_count"`
	ConfidenceScore    *float64        `json:"confidence_score"`
	Cases              []*CaseDoc      `json:"cases"`
}

// PendingCases returns the cases in the group that still need review.
func (g *GroupDoc) PendingCases() []*CaseDoc {
	var pending []*CaseDoc
	for _, c := range g.Cases {
		if c.ReviewStatus.Determination == DeterminationPending {
			pending = append(pending, c)
		}
	}
	return pending
}

// Characteristics are the representative signature features of a
// group, used by the learner to derive pattern criteria.
type Characteristics struct {
	IsRetroactive        bool   `json:"is_retroactive"`
	IsSameDay            bool   `json:"is_same_day"`
	HadPriorValidNotice  bool   `json:"had_prior_valid_notice"`
	ActionType           string `json:"action_type"`
	NoticeDays           int    `json:"notice_days"`
	PriorNoticeDays      *int   `json:"prior_notice_days"`
	HadSameDayTimeChange bool   `json:"had_same_day_time_change"`
	TextContainsTime     bool   `json:"text_contains_time"`
	TextContainsVirtual  bool   `json:"text_contains_virtual"`
}

// CaseDoc is one notice projected into the dataset document.
type CaseDoc struct {
	BillID             string             `json:"bill_id"`
	CommitteeID        string             `json:"committee_id"`
	CommitteeName      string             `json:"committee_name"`
	BillURL            string             `json:"bill_url"`
	ProblematicHearing HearingDetail      `json:"problematic_hearing"`
	TimelineSummary    TimelineSummary    `json:"timeline_summary"`
	PriorAnnouncement  *PriorAnnouncement `json:"prior_announcement,omitempty"`
	ReviewStatus       ReviewStatus       `json:"review_status"`
	Evidence           Evidence           `json:"evidence"`
	ComputedSignature  string             `json:"computed_signature"`
	WhitelistPatternID string             `json:"whitelist_pattern_id,omitempty"`
}

// HearingDetail describes the flagged action.
type HearingDetail struct {
	AnnouncementDate     string `json:"announcement_date"`
	ScheduledHearingDate string `json:"scheduled_hearing_date"`
	NoticeDays           int    `json:"notice_days"`
	ActionType           string `json:"action_type"`
	RawText              string `json:"raw_text"`
}

// TimelineSummary carries the full hearing-action sequence for display.
type TimelineSummary struct {
	TotalHearingActions int            `json:"total_hearing_actions"`
	ActionSequence      []HearingEntry `json:"action_sequence"`
}

// HearingEntry mirrors notice.HearingAction in the dataset document.
type HearingEntry struct {
	AnnouncementDate string `json:"announcement_date"`
	ActionType       string `json:"action_type"`
	HearingDate      string `json:"hearing_date"`
	NoticeDays       int    `json:"notice_days"`
}

// PriorAnnouncement describes the earlier valid notice, when one existed.
type PriorAnnouncement struct {
	AnnouncementDate     string  `json:"announcement_date"`
	ScheduledHearingDate *string `json:"scheduled_hearing_date"`
	NoticeDays           *int    `json:"notice_days"`
	ActionType           string  `json:"action_type"`
}

// ReviewStatus is the mutable review state of a case within the
// dataset projection.
type ReviewStatus struct {
	Reviewed      bool   `json:"reviewed"`
	Determination string `json:"determination"`
	ReviewerNotes string `json:"reviewer_notes"`
}

// Evidence carries the facts most useful when judging clerical vs
// violation.
type Evidence struct {
	TimeChanged         bool `json:"time_changed"`
	TextContainsVirtual bool `json:"text_contains_virtual"`
}
