package domain

import "time"

// ComputeStats folds items into board-level counts in a single pass.
func ComputeStats(items []BoardItem) Stats {
	stats := Stats{Total: len(items)}

	for _, item := range items {
		if item.IsPending {
			stats.Pending++
		}
		if item.IsAssignedToViewer {
			stats.AssignedToViewer++
		}
		if item.StatusType == StatusDone {
			stats.Done++
		}
	}

	return stats
}

// LatestUpdate returns the most recent UpdatedAt among items, or nil when
// no item carries a timestamp.
func LatestUpdate(items []BoardItem) *time.Time {
	var latest *time.Time

	for _, item := range items {
		if item.UpdatedAt == nil {
			continue
		}
		if latest == nil || item.UpdatedAt.After(*latest) {
			ts := *item.UpdatedAt
			latest = &ts
		}
	}

	return latest
}
