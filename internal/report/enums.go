package report

import "strings"

// Report statuses, persisted verbatim.
const (
	StatusPending          = "pending"
	StatusApproved         = "approved"
	StatusRejected         = "rejected"
	StatusRequiresRevision = "requires_revision"
)

// transitions holds the allowed status moves. Review moves pending onward;
// a carer resubmit moves requires_revision back to pending. Rejected is
// terminal for carer edits.
var transitions = map[string][]string{
	StatusPending:          {StatusApproved, StatusRejected, StatusRequiresRevision},
	StatusRequiresRevision: {StatusPending},
}

// CanTransition reports whether a report may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsReviewStatus reports whether a status is a valid review outcome.
func IsReviewStatus(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusRequiresRevision:
		return true
	}
	return false
}

// Canonical mood values. Older records stored these lowercase; both forms
// are accepted on read.
var Moods = []string{"Happy", "Content", "Neutral", "Anxious", "Sad", "Confused", "Agitated", "Calm"}

// Canonical engagement values.
var Engagements = []string{"Very Engaged", "Engaged", "Somewhat Engaged", "Limited Engagement", "Not Engaged"}

// engagementSynonyms maps legacy stored strings to canonical values.
// Keys must be in canonicalKey form (lowercase, space-separated);
// lookups pass through canonicalKey, so underscore variants match too.
var engagementSynonyms = map[string]string{
	"highly engaged":    "Very Engaged",
	"fully engaged":     "Very Engaged",
	"partially engaged": "Somewhat Engaged",
	"limited":           "Limited Engagement",
	"low engagement":    "Limited Engagement",
	"disengaged":        "Not Engaged",
	"unengaged":         "Not Engaged",
}

// NormalizeMood maps any accepted mood spelling to its canonical title-case
// form. Returns false for unknown values.
func NormalizeMood(value string) (string, bool) {
	needle := canonicalKey(value)
	if needle == "" {
		return "", false
	}
	for _, mood := range Moods {
		if canonicalKey(mood) == needle {
			return mood, true
		}
	}
	return "", false
}

// NormalizeEngagement maps any accepted engagement spelling, including
// legacy synonyms, to its canonical form. Returns false for unknown values.
func NormalizeEngagement(value string) (string, bool) {
	needle := canonicalKey(value)
	if needle == "" {
		return "", false
	}
	if canonical, ok := engagementSynonyms[needle]; ok {
		return canonical, true
	}
	for _, engagement := range Engagements {
		if canonicalKey(engagement) == needle {
			return engagement, true
		}
	}
	return "", false
}

// canonicalKey lowercases and treats underscores as spaces so that
// "highly_engaged", "Highly Engaged" and "highly engaged" compare equal.
func canonicalKey(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, "_", " ")
	return strings.Join(strings.Fields(value), " ")
}
