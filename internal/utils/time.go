package utils

import (
	"time"

	_ "time/tzdata"
)

// DayFormat is the calendar-day key used by the store and the payload.
const DayFormat = "2006-01-02"

var hcmcLoc *time.Location

func init() {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		// Vietnam has no DST; a fixed offset is equivalent.
		loc = time.FixedZone("ICT", 7*3600)
	}
	hcmcLoc = loc
}

// HCMCLoc returns the Ho Chi Minh City time zone location.
// The tzdata import keeps behavior consistent even on minimal systems.
func HCMCLoc() *time.Location {
	return hcmcLoc
}

func NowHCMC() time.Time {
	return time.Now().In(hcmcLoc)
}

// DayKey formats an instant as its HCMC calendar day.
func DayKey(t time.Time) string {
	return t.In(hcmcLoc).Format(DayFormat)
}

// StartOfDay truncates an instant to midnight of its HCMC calendar day.
func StartOfDay(t time.Time) time.Time {
	lt := t.In(hcmcLoc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, hcmcLoc)
}

// DaysBetween returns the absolute distance between two instants in whole
// calendar days. Two instants on the same calendar day have distance 0
// regardless of their time-of-day components.
func DaysBetween(a, b time.Time) int {
	d := int(StartOfDay(a).Sub(StartOfDay(b)).Hours() / 24)
	if d < 0 {
		d = -d
	}
	return d
}

// ParseDay parses a YYYY-MM-DD calendar-day key in HCMC time.
func ParseDay(key string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, key, hcmcLoc)
}
