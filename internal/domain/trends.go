package domain

import "time"

// TrendsCacheKey is the cache key of the latest trends snapshot.
const TrendsCacheKey = "latest_trends"

// DayKeyLayout formats the day bucket of a record.
const DayKeyLayout = "2006-01-02"

// ItemCount is a free-text item with its frequency.
type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// TrendsSnapshot is the aggregated view over a set of records.
// Every series in EmotionCountsByDate is aligned with Dates.
type TrendsSnapshot struct {
	Dates               []string          `json:"dates"`
	EmotionCountsByDate map[Emotion][]int `json:"emotion_counts_by_date"`
	TopBlockers         []ItemCount       `json:"top_blockers"`
	TopNextSteps        []ItemCount       `json:"top_next_steps"`
	RecordCount         int               `json:"record_count"`
	WindowDays          int               `json:"window_days,omitempty"`
	GeneratedAt         time.Time         `json:"generated_at"`
}
