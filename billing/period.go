package billing

import "time"

// PeriodDays is the length of one paid subscription period.
const PeriodDays = 30

// CalculatePeriodEnd returns start + 30 days, computed in UTC.
func CalculatePeriodEnd(start time.Time) time.Time {
	return start.UTC().AddDate(0, 0, PeriodDays)
}
