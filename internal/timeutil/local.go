package timeutil

import (
	"strings"
	"time"
)

// Local is the condominium's business time zone (UTC-4 by default).
var Local *time.Location

func init() {
	var err error
	Local, err = time.LoadLocation("America/Caracas")
	if err != nil {
		Local = time.FixedZone("VET", -4*60*60)
	}
}

// SetLocation switches the business time zone; unknown names are ignored.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Local = loc
	return nil
}

func Now() time.Time {
	return time.Now().In(Local)
}

func StartOfDay(t time.Time) time.Time {
	l := t.In(Local)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, Local)
}

// PeriodLabel names a billing month, e.g. "March 2026".
func PeriodLabel(t time.Time) string {
	return t.In(Local).Format("January 2006")
}

// BillingDate returns the billing day of the given month, clamped to the
// month's last day.
func BillingDate(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, Local).Day()
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, Local)
}

const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02/01/2006 03:04 PM"
)

// ParseDate reads a YYYY-MM-DD date as midnight in the business zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), Local)
}
