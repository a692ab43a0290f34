package domain

import "strings"

// statusKeywords is the classification policy, checked in order.
// Status text may contain keywords from several groups ("Ready for Review"),
// so the order decides the result.
var statusKeywords = []struct {
	statusType StatusType
	keywords   []string
}{
	{StatusDone, []string{"done", "closed", "complete", "completed", "merged", "shipped"}},
	{StatusInProgress, []string{"in progress", "active", "review", "blocked"}},
	{StatusTodo, []string{"todo", "to do", "backlog", "ready", "next"}},
}

// ClassifyStatus maps free-text status to a lifecycle category by
// case-insensitive substring matching. The first matching group wins.
func ClassifyStatus(status string) StatusType {
	lower := strings.ToLower(status)

	for _, group := range statusKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.statusType
			}
		}
	}

	return StatusUnknown
}
