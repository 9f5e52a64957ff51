package util

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

const dateFormat = "2006-01-02"

// DayKey returns the daily bucket key for a timestamp, in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format(dateFormat)
}

// HourKey returns the hourly bucket key for a timestamp, in UTC.
func HourKey(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:00")
}

// RangeStart resolves a movement range key to the start of its window.
// ok is false for "all", which has no lower bound.
func RangeStart(key string, now time.Time) (start time.Time, ok bool, err error) {
	switch key {
	case "7d":
		return now.AddDate(0, 0, -7), true, nil
	case "1m":
		return now.AddDate(0, -1, 0), true, nil
	case "3m":
		return now.AddDate(0, -3, 0), true, nil
	case "ytd":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true, nil
	case "all":
		return time.Time{}, false, nil
	default:
		return time.Time{}, false, fmt.Errorf("unknown range key %q", key)
	}
}

func marketLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Errorf("Failed to load location 'America/New_York': %v. Falling back to UTC.", err)
		return time.UTC
	}
	return loc
}

// IsMarketOpen reports whether t falls on a weekday between 9AM and 5PM
// Eastern. The capture job is gated on this; manual fetches are not.
func IsMarketOpen(t time.Time) bool {
	et := t.In(marketLocation())
	if et.Weekday() == time.Saturday || et.Weekday() == time.Sunday {
		return false
	}
	return et.Hour() >= 9 && et.Hour() < 17
}
