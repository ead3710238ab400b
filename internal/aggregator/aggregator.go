package aggregator

import (
	"slices"
	"time"

	"pibdash/internal/models"
)

// Aggregate counts rows per time bucket. Only buckets that occur in rows are
// returned, in ascending order, so every count is positive and the counts sum
// to len(rows). Granularities other than Daily and Yearly bucket by month.
func Aggregate(rows []models.PressRelease, granularity models.Granularity) []models.AggregatedBucket {
	counts := make(map[time.Time]int)
	for _, row := range rows {
		counts[bucketStart(row, granularity)]++
	}

	buckets := make([]models.AggregatedBucket, 0, len(counts))
	for start, count := range counts {
		buckets = append(buckets, models.AggregatedBucket{
			Key:   bucketKey(start, granularity),
			Start: start,
			Count: count,
		})
	}

	slices.SortFunc(buckets, func(a, b models.AggregatedBucket) int {
		return a.Start.Compare(b.Start)
	})
	return buckets
}

// Total sums the bucket counts of a series.
func Total(buckets []models.AggregatedBucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}

func bucketStart(row models.PressRelease, granularity models.Granularity) time.Time {
	switch granularity {
	case models.Daily:
		return row.Date
	case models.Yearly:
		return time.Date(row.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return row.Month
	}
}

func bucketKey(start time.Time, granularity models.Granularity) string {
	switch granularity {
	case models.Daily:
		return start.Format("2006-01-02")
	case models.Yearly:
		return start.Format("2006")
	default:
		return start.Format("2006-01")
	}
}
