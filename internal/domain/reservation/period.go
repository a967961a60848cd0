package reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidPeriod    = errors.New("invalid rental period")
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)

// TimeOfDay is a wall-clock time with minute precision, used for the
// optional pickup and return times on a rental period.
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: hour*60 + minute}, nil
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay{minutes: t.Hour()*60 + t.Minute()}, nil
}

func TimeOfDayFromMicroseconds(us int64) TimeOfDay {
	return TimeOfDay{minutes: int(us / 60_000_000)}
}

func (t TimeOfDay) Hour() int   { return t.minutes / 60 }
func (t TimeOfDay) Minute() int { return t.minutes % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) Microseconds() int64 {
	return int64(t.minutes) * 60_000_000
}

// Period is the requested rental interval: a date range with optional
// pickup and return times. Missing times default to the start of the first
// day and the end of the last day when the period is resolved to timestamps.
type Period struct {
	startDate time.Time
	endDate   time.Time
	startTime *TimeOfDay
	endTime   *TimeOfDay
}

func NewPeriod(startDate, endDate time.Time, startTime, endTime *TimeOfDay) (Period, error) {
	p := Period{
		startDate: truncateToDate(startDate),
		endDate:   truncateToDate(endDate),
		startTime: startTime,
		endTime:   endTime,
	}
	if p.endDate.Before(p.startDate) {
		return Period{}, ErrInvalidPeriod
	}
	if !p.StartsAt().Before(p.EndsAt()) {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartsAt combines the start date with the pickup time, defaulting to the
// start of the day.
func (p Period) StartsAt() time.Time {
	if p.startTime != nil {
		return p.startDate.Add(time.Duration(p.startTime.minutes) * time.Minute)
	}
	return p.startDate
}

// EndsAt combines the end date with the return time, defaulting to the end
// of the day at second granularity so back-to-back bookings on consecutive
// days do not collide.
func (p Period) EndsAt() time.Time {
	if p.endTime != nil {
		return p.endDate.Add(time.Duration(p.endTime.minutes) * time.Minute)
	}
	return p.endDate.Add(24*time.Hour - time.Second)
}

// HasTimes reports whether both pickup and return times were given, which
// switches billing from whole days to a day+hour split.
func (p Period) HasTimes() bool {
	return p.startTime != nil && p.endTime != nil
}

func (p Period) Overlaps(other Period) bool {
	return p.StartsAt().Before(other.EndsAt()) && other.StartsAt().Before(p.EndsAt())
}

// RentalDuration splits the period into billable days and remainder hours.
// With explicit times the split is derived from the exact timestamp span;
// date-only periods bill every calendar day touched, with no hour part.
func (p Period) RentalDuration() (days int, hours int) {
	if p.HasTimes() {
		total := p.EndsAt().Sub(p.StartsAt()).Hours()
		days = int(total) / 24
		hours = int(total) % 24
		return days, hours
	}
	days = civilDaysBetween(p.startDate, p.endDate) + 1
	return days, 0
}

// civilDaysBetween counts whole calendar days between two dates. The dates
// are re-anchored in UTC first so a DST-shortened day in a zoned date still
// counts as a full day.
func civilDaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s) / (24 * time.Hour))
}

func (p Period) StartDate() time.Time  { return p.startDate }
func (p Period) EndDate() time.Time    { return p.endDate }
func (p Period) StartTime() *TimeOfDay { return p.startTime }
func (p Period) EndTime() *TimeOfDay   { return p.endTime }
