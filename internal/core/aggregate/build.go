package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/noticewatch/internal/core/notice"
)

// outlierThreshold is the maximum group size still treated as noise: a
// cluster of one or two cases is not a statistically meaningful
// pattern and is flattened into the outlier list.
const outlierThreshold = 2

// Group accumulates cases sharing one composite signature key.
type Group struct {
	SignatureKey   string
	Cases          []*notice.Notice
	ReviewedCount  int
	ClericalCount  int
	ViolationCount int
}

// NewGroup creates an empty group for a composite key.
func NewGroup(key string) *Group {
	return &Group{SignatureKey: key}
}

// Add appends a case and folds its review state into the counters.
func (g *Group) Add(n *notice.Notice) {
	g.Cases = append(g.Cases, n)
	if n.Reviewed {
		g.ReviewedCount++
		switch {
		case n.IsClerical != nil && *n.IsClerical:
			g.ClericalCount++
		case n.IsClerical != nil && !*n.IsClerical:
			g.ViolationCount++
		}
	}
}

// ConfidenceScore is the fraction of reviewed cases judged clerical,
// or nil when nothing in the group has been reviewed yet.
func (g *Group) ConfidenceScore() *float64 {
	if g.ReviewedCount == 0 {
		return nil
	}
	score := float64(g.ClericalCount) / float64(g.ReviewedCount)
	return &score
}

// PatternDescription renders a human-readable label from the group's
// representative (first) case. Display only - grouping and matching
// never consult it.
func (g *Group) PatternDescription() string {
	if len(g.Cases) == 0 {
		return "Unknown pattern"
	}
	sig := g.Cases[0].EnsureSignature()

	var parts []string
	parts = append(parts, titleCase(sig.NoticeCategory))

	switch {
	case strings.Contains(sig.ActionType, "RESCHEDULED"):
		parts = append(parts, "rescheduled")
	case strings.Contains(sig.ActionType, "SCHEDULED"):
		parts = append(parts, "scheduled")
	}

	if sig.HadPriorValidNotice && sig.PriorNoticeDays != nil && *sig.PriorNoticeDays != 0 {
		parts = append(parts, fmt.Sprintf("(had prior %d-day notice)", *sig.PriorNoticeDays))
	}

	if sig.HadSameDayTimeChange {
		parts = append(parts, "+ same-day time change")
	}

	return strings.Join(parts, " ")
}

func titleCase(category string) string {
	words := strings.Split(category, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Characteristics extracts the representative signature features used
// by the learner when deriving criteria.
func (g *Group) Characteristics() Characteristics {
	if len(g.Cases) == 0 {
		return Characteristics{}
	}
	sig := g.Cases[0].EnsureSignature()
	return Characteristics{
		IsRetroactive:        sig.IsRetroactive,
		IsSameDay:            sig.IsSameDay,
		HadPriorValidNotice:  sig.HadPriorValidNotice,
		ActionType:           sig.ActionType,
		NoticeDays:           sig.NoticeDays,
		PriorNoticeDays:      sig.PriorNoticeDays,
		HadSameDayTimeChange: sig.HadSameDayTimeChange,
		TextContainsTime:     sig.TextContainsTime,
		TextContainsVirtual:  sig.TextContainsVirtual,
	}
}

// Doc projects the group into its dataset-document form.
func (g *Group) Doc() *GroupDoc {
	doc := &GroupDoc{
		SignatureID:        g.SignatureKey,
		PatternDescription: g.PatternDescription(),
		Characteristics:    g.Characteristics(),
		CaseCount:          len(g.Cases),
		ReviewedCount:      g.ReviewedCount,
		ClericalCount:      g.ClericalCount,
		ViolationCount:     g.ViolationCount,
		ConfidenceScore:    g.ConfidenceScore(),
	}
	if len(g.Cases) > 0 {
		days := g.Cases[0].NoticeDays
		doc.NoticeDays = &days
	}
	for _, n := range g.Cases {
		doc.Cases = append(doc.Cases, CaseFromNotice(n))
	}
	return doc
}

// CaseFromNotice projects a notice into its dataset-document form.
func CaseFromNotice(n *notice.Notice) *CaseDoc {
	sig := n.EnsureSignature()

	doc := &CaseDoc{
		BillID:        n.BillID,
		CommitteeID:   n.CommitteeID,
		CommitteeName: n.CommitteeID,
		BillURL:       n.BillURL,
		ProblematicHearing: HearingDetail{
			AnnouncementDate:     n.AnnouncementDate.String(),
			ScheduledHearingDate: n.ScheduledHearingDate.String(),
			NoticeDays:           n.NoticeDays,
			ActionType:           n.ActionType,
			RawText:              n.RawActionText,
		},
		TimelineSummary: TimelineSummary{
			TotalHearingActions: len(n.AllHearingActions),
		},
		ReviewStatus: ReviewStatus{
			Reviewed:      n.Reviewed,
			Determination: determination(n),
			ReviewerNotes: n.ReviewerNotes,
		},
		Evidence: Evidence{
			TimeChanged:         sig.HadSameDayTimeChange,
			TextContainsVirtual: sig.TextContainsVirtual,
		},
		ComputedSignature:  sig.CompositeKey,
		WhitelistPatternID: n.WhitelistPatternID,
	}

	for _, a := range n.AllHearingActions {
		doc.TimelineSummary.ActionSequence = append(doc.TimelineSummary.ActionSequence, HearingEntry{
			AnnouncementDate: a.AnnouncementDate,
			ActionType:       a.ActionType,
			HearingDate:      a.HearingDate,
			NoticeDays:       a.NoticeDays,
		})
	}

	if n.HadPriorAnnouncement && n.PriorAnnouncementDate != nil {
		prior := &PriorAnnouncement{
			AnnouncementDate: n.PriorAnnouncementDate.String(),
			NoticeDays:       n.PriorBestNoticeDays,
			ActionType:       notice.ActionHearingScheduled,
		}
		if n.PriorScheduledDate != nil {
			s := n.PriorScheduledDate.String()
			prior.ScheduledHearingDate = &s
		}
		doc.PriorAnnouncement = prior
	}

	return doc
}

func determination(n *notice.Notice) string {
	if n.IsClerical == nil {
		return DeterminationPending
	}
	if *n.IsClerical {
		return DeterminationClerical
	}
	return DeterminationViolation
}

// Build groups notices by composite signature key and assembles the
// review dataset. Empty input yields an empty dataset shell, not an
// error. The now argument timestamps the metadata so callers control
// determinism.
func Build(notices []*notice.Notice, now time.Time) *Dataset {
	if len(notices) == 0 {
		return &Dataset{
			Metadata: Metadata{GeneratedAt: now},
			Groups:   []*GroupDoc{},
			Outliers: []*CaseDoc{},
		}
	}

	byKey := make(map[string]*Group)
	var order []string
	for _, n := range notices {
		key := n.EnsureSignature().CompositeKey
		g, ok := byKey[key]
		if !ok {
			g = NewGroup(key)
			byKey[key] = g
			order = append(order, key)
		}
		g.Add(n)
	}

	groups := make([]*Group, 0, len(byKey))
	for _, key := range order {
		groups = append(groups, byKey[key])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].Cases) != len(groups[j].Cases) {
			return len(groups[i].Cases) > len(groups[j].Cases)
		}
		return groups[i].ReviewedCount > groups[j].ReviewedCount
	})

	var regular []*Group
	var outliers []*Group
	for _, g := range groups {
		if len(g.Cases) > outlierThreshold {
			regular = append(regular, g)
		} else {
			outliers = append(outliers, g)
		}
	}

	sessions := make(map[string]struct{})
	committees := make(map[string]struct{})
	reviewed := 0
	for _, n := range notices {
		sessions[n.Session] = struct{}{}
		committees[n.CommitteeID] = struct{}{}
		if n.Reviewed {
			reviewed++
		}
	}

	ds := &Dataset{
		Metadata: Metadata{
			GeneratedAt:        now,
			TotalCases:         len(notices),
			SignatureGroups:    len(regular),
			OutlierGroups:      len(outliers),
			SessionsCovered:    sortedKeys(sessions),
			CommitteesAffected: sortedKeys(committees),
			UnreviewedCount:    len(notices) - reviewed,
			ReviewedCount:      reviewed,
		},
		Groups:   []*GroupDoc{},
		Outliers: []*CaseDoc{},
	}

	for _, g := range regular {
		ds.Groups = append(ds.Groups, g.Doc())
	}
	for _, g := range outliers {
		for _, n := range g.Cases {
			ds.Outliers = append(ds.Outliers, CaseFromNotice(n))
		}
	}

	return ds
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
