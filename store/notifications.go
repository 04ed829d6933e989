// ABOUTME: Due-date triage behind the notification bell
// ABOUTME: Pending tasks bucketed as overdue, due today or due tomorrow
package store

import (
	"sort"

	"github.com/mkarcz/prospekt/models"
)

// TaskAlerts groups pending tasks by how pressing their due date is.
type TaskAlerts struct {
	Overdue     []models.Task
	DueToday    []models.Task
	DueTomorrow []models.Task
}

// UrgentCount is the badge number: tasks that are late or due today.
func (a TaskAlerts) UrgentCount() int {
	return len(a.Overdue) + len(a.DueToday)
}

// Total counts every task in the alert list.
func (a TaskAlerts) Total() int {
	return len(a.Overdue) + len(a.DueToday) + len(a.DueTomorrow)
}

// PendingTasksByUrgency classifies incomplete tasks against the store
// clock. Tasks without a due date are left out; anything later than
// tomorrow is not an alert. Due dates compare lexicographically, which
// matches calendar order for the YYYY-MM-DD format.
func (s *Store) PendingTasksByUrgency() TaskAlerts {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().Format(models.DateFormat)
	tomorrow := s.now().AddDate(0, 0, 1).Format(models.DateFormat)

	var alerts TaskAlerts
	for _, t := range s.tasks {
		if t.IsCompleted || t.DueDate == "" {
			continue
		}
		switch {
		case t.DueDate < today:
			alerts.Overdue = append(alerts.Overdue, t)
		case t.DueDate == today:
			alerts.DueToday = append(alerts.DueToday, t)
		case t.DueDate == tomorrow:
			alerts.DueTomorrow = append(alerts.DueTomorrow, t)
		}
	}
	sort.SliceStable(alerts.Overdue, func(i, j int) bool {
		return alerts.Overdue[i].DueDate < alerts.Overdue[j].DueDate
	})
	return alerts
}
