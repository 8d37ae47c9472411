package domain

import "time"

// Riksbank publishes the day's rates at 16:15 local time.
const (
	publishCutoffHour   = 16
	publishCutoffMinute = 15
)

// LatestBankDay returns the most recent date for which published rates
// should exist: today once the wall clock has passed the 16:15 publish
// cutoff, otherwise yesterday. This rule is pure and knows nothing about
// weekends or holidays; the authoritative banking day check is delegated
// to the Riksbank calendar endpoint.
func LatestBankDay(now time.Time) time.Time {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), publishCutoffHour, publishCutoffMinute, 0, 0, now.Location())

	day := now
	if now.Before(cutoff) {
		day = now.AddDate(0, 0, -1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// RateDateFormat is the wire format for dates in the Riksbank API and for
// rate dates throughout the service.
const RateDateFormat = "2006-01-02"
