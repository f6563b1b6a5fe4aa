package schedule

import "time"

// WeekWindow returns the Monday-start 7-day range containing t. All calendar
// date arithmetic in the engine goes through here so the creation flow and
// the overview flow cannot disagree about week boundaries.
func WeekWindow(t time.Time) (start, end time.Time) {
	day := Day(t)
	offset := int(day.Weekday()-time.Monday+7) % 7
	start = day.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 6)
	return start, end
}

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// OnDate anchors a time-of-day value onto a calendar date.
func OnDate(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}
