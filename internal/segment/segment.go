// Package segment classifies leads into named audience subsets. All
// functions are pure: the same inputs always produce the same ordered
// output, which the sync cursor protocol depends on.
package segment

import (
	"sort"
	"time"

	"leadsync/internal/models"
)

// Filter returns the leads belonging to the given segment, newest first.
// dateFilter, when present, restricts to leads submitted at or after it.
func Filter(leads []models.Lead, kind models.SegmentKind, dateFilter *time.Time) []models.Lead {
	matched := make([]models.Lead, 0, len(leads))

	for _, lead := range leads {
		if dateFilter != nil && lead.SubmittedAt.Before(*dateFilter) {
			continue
		}
		if !matches(lead, kind) {
			continue
		}
		matched = append(matched, lead)
	}

	// Newest first; tie-break on id to keep the order deterministic
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].SubmittedAt.Equal(matched[j].SubmittedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})

	return matched
}

// matches applies the segment membership rule to one lead.
// The abandoned rule (not completed, not a partial save) is the legacy
// inference preserved as observed.
func matches(lead models.Lead, kind models.SegmentKind) bool {
	switch kind {
	case models.SegmentAll:
		return true
	case models.SegmentCompleted:
		return lead.Status == models.LeadStatusCompleted
	case models.SegmentAbandoned:
		return lead.Status == models.LeadStatusAbandoned
	default:
		return false
	}
}
