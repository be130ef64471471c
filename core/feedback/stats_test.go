package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	yesterdayLate := time.Date(2024, 9, 9, 23, 59, 0, 0, time.UTC)
	msgs := []Message{
		msgAt("a", now.Add(-time.Hour)),
		msgAt("b", yesterdayLate),
		msgAt("c", now.AddDate(0, 0, -10)),
		msgAt("d", now.AddDate(0, 0, -40)),
	}

	assert.Equal(t, Stats{Total: 4, Today: 1, Week: 2, Month: 3}, ComputeStats(msgs, now))
	assert.Equal(t, Stats{}, ComputeStats(nil, now))

	t.Run("calendar day of now's location", func(t *testing.T) {
		// 23:59 UTC on the 9th is already the 10th in Nairobi (UTC+3)
		nairobi := time.FixedZone("EAT", 3*60*60)
		assert.Equal(t, 2, ComputeStats(msgs, now.In(nairobi)).Today)
	})
}
