package domain

import (
	"slices"
	"time"
)

// DaySchedule is one calendar day of a trip and the activities that occur on it.
type DaySchedule struct {
	Date       time.Time
	Activities []Activity
}

// ScheduleRow is a single row in the flat itinerary export.
// Days without activities yield one row with empty activity fields so that
// every day of the trip appears in the export.
type ScheduleRow struct {
	TripID      string
	Destination string
	Date        string // "2006-01-02" formatted UTC calendar day

	// Activity fields, empty when the day has no activities.
	ActivityID string
	Title      string
	OccursAt   *time.Time
}

// CalendarDay truncates t to midnight of its UTC calendar day.
func CalendarDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildSchedule buckets activities by UTC calendar day over the whole trip.
//
// The result holds exactly one bucket per day from the start day to the end
// day inclusive, in date order, whether or not a day has activities. Each
// activity lands in the bucket of its own calendar day, ordered by OccursAt.
// Activities outside the trip's days are ignored.
func BuildSchedule(trip Trip, activities []Activity) []DaySchedule {
	first := CalendarDay(trip.StartsAt)
	last := CalendarDay(trip.EndsAt)
	if last.Before(first) {
		return []DaySchedule{}
	}

	n := dayIndex(first, last) + 1
	days := make([]DaySchedule, n)
	for i := range days {
		days[i] = DaySchedule{Date: first.AddDate(0, 0, i), Activities: []Activity{}}
	}

	sorted := slices.Clone(activities)
	slices.SortStableFunc(sorted, func(a, b Activity) int {
		return a.OccursAt.Compare(b.OccursAt)
	})
	for _, a := range sorted {
		i := dayIndex(first, CalendarDay(a.OccursAt))
		if i < 0 || i >= n {
			continue
		}
		days[i].Activities = append(days[i].Activities, a)
	}
	return days
}

// FlattenSchedule turns day buckets into export rows, one per activity.
func FlattenSchedule(trip Trip, days []DaySchedule) []ScheduleRow {
	rows := make([]ScheduleRow, 0, len(days))
	for _, d := range days {
		base := ScheduleRow{
			TripID:      trip.ID.String(),
			Destination: trip.Destination,
			Date:        d.Date.Format(time.DateOnly),
		}
		if len(d.Activities) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, a := range d.Activities {
			row := base
			at := a.OccursAt.UTC()
			row.ActivityID = a.ID.String()
			row.Title = a.Title
			row.OccursAt = &at
			rows = append(rows, row)
		}
	}
	return rows
}

// dayIndex returns the number of calendar days from one UTC midnight to
// another. It counts Unix days so spans beyond time.Duration's range stay exact.
func dayIndex(from, to time.Time) int {
	return int(to.Unix()/secondsPerDay - from.Unix()/secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60
