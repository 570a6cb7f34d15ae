package trend

import (
	"sort"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// Aggregate builds a snapshot from records. Dates are the distinct UTC days
// in ascending order, and every emotion seen gets a zero-filled series
// aligned with them. Top lists hold at most topN items by descending count;
// equal counts keep the order in which items were first seen.
// GeneratedAt and WindowDays are left for the caller.
func Aggregate(records []domain.VoiceRecord, topN int) domain.TrendsSnapshot {
	byDay := make(map[string]map[domain.Emotion]int)
	seenEmotions := make(map[domain.Emotion]struct{})
	blockers := newCounter()
	nextSteps := newCounter()

	for _, r := range records {
		day := r.CreatedAt.UTC().Format(domain.DayKeyLayout)
		emotion := r.Emotion.OrDefault()

		if byDay[day] == nil {
			byDay[day] = make(map[domain.Emotion]int)
		}
		byDay[day][emotion]++
		seenEmotions[emotion] = struct{}{}

		blockers.addAll(r.Blockers)
		nextSteps.addAll(r.NextSteps)
	}

	dates := make([]string, 0, len(byDay))
	for day := range byDay {
		dates = append(dates, day)
	}
	sort.Strings(dates)

	series := make(map[domain.Emotion][]int, len(seenEmotions))
	for emotion := range seenEmotions {
		counts := make([]int, len(dates))
		for i, day := range dates {
			counts[i] = byDay[day][emotion]
		}
		series[emotion] = counts
	}

	return domain.TrendsSnapshot{
		Dates:               dates,
		EmotionCountsByDate: series,
		TopBlockers:         blockers.top(topN),
		TopNextSteps:        nextSteps.top(topN),
		RecordCount:         len(records),
	}
}

// counter counts items and remembers first-seen order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) addAll(items []string) {
	for _, item := range items {
		if _, ok := c.counts[item]; !ok {
			c.order = append(c.order, item)
		}
		c.counts[item]++
	}
}

func (c *counter) top(n int) []domain.ItemCount {
	out := make([]domain.ItemCount, len(c.order))
	for i, item := range c.order {
		out[i] = domain.ItemCount{Item: item, Count: c.counts[item]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
