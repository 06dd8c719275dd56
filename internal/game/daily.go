package game

import "time"

// DateLayout is the calendar date format used for round keys.
const DateLayout = "2006-01-02"

// SeedAndDateForNow returns the daily seed (YYYYMMDD as an integer) and the
// ISO date for now's UTC calendar day.
func SeedAndDateForNow(now time.Time) (int64, string) {
	u := now.UTC()
	seed := int64(u.Year())*10000 + int64(u.Month())*100 + int64(u.Day())
	return seed, u.Format(DateLayout)
}

// NextReset returns the time left until the next UTC midnight.
func NextReset(now time.Time) time.Duration {
	u := now.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day()+1, 0, 0, 0, 0, time.UTC)
	return midnight.Sub(u)
}
