package feedback

import "time"

// Stats are the dashboard's headline counts.
type Stats struct {
	Total int `json:"total"`
	Today int `json:"today"`
	Week  int `json:"week"`
	Month int `json:"month"`
}

// ComputeStats counts messages received on now's calendar day, in the past 7 days
// and in the past calendar month.
func ComputeStats(msgs []Message, now time.Time) Stats {
	weekAgo, _ := PastWeek.Since(now)
	monthAgo, _ := PastMonth.Since(now)
	y, m, d := now.Date()

	stats := Stats{Total: len(msgs)}
	for _, msg := range msgs {
		created := msg.CreatedAt.In(now.Location())
		if cy, cm, cd := created.Date(); cy == y && cm == m && cd == d {
			stats.Today++
		}
		if !created.Before(weekAgo) {
			stats.Week++
		}
		if !created.Before(monthAgo) {
			stats.Month++
		}
	}
	return stats
}
