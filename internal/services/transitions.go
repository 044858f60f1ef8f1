package services

import "github.com/stephen4599/Civic-resolve/internal/models"

// statusTransitions is the single source of truth for issue lifecycle moves.
// RESOLVED and REJECTED are terminal. The IN_PROGRESS self-transition is the
// "send back for improvement" path used by admins to bounce work back to the
// assigned contractor.
var statusTransitions = map[models.IssueStatus][]models.IssueStatus{
	models.StatusPending:    {models.StatusVerified, models.StatusRejected},
	models.StatusVerified:   {models.StatusInProgress, models.StatusRejected},
	models.StatusInProgress: {models.StatusInProgress, models.StatusResolved},
	models.StatusResolved:   {},
	models.StatusRejected:   {},
}

// CanTransition reports whether the lifecycle table allows moving an issue
// from one status to another. Contractor assignment does not go through this
// table: binding a contractor always force-sets IN_PROGRESS.
func CanTransition(from, to models.IssueStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from the given one.
func AllowedTransitions(from models.IssueStatus) []models.IssueStatus {
	out := make([]models.IssueStatus, len(statusTransitions[from]))
	copy(out, statusTransitions[from])
	return out
}
