package capture

import (
	"time"

	"github.com/noah-isme/solvesync/internal/models"
)

const dateLayout = "2006-01-02"

// ApplyStreak updates the day streak for a counted solve at now, using now's location.
func ApplyStreak(stats *models.Stats, now time.Time) {
	today := now.Format(dateLayout)

	if stats.LastSolveDate == "" {
		stats.Streak = 1
		stats.LastSolveDate = today
		return
	}
	if stats.LastSolveDate == today {
		return
	}

	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, now.Location()).Format(dateLayout)
	if stats.LastSolveDate == yesterday {
		stats.Streak++
	} else {
		stats.Streak = 1
	}
	stats.LastSolveDate = today
}
