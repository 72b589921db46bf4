// Package model contains the domain records passed between the loader, the
// engines and the report writers. Records are immutable once built.
package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the club's date format. Single-digit days and months parse.
const DateLayout = "2/1/2006"

// Gender of a swimmer; selects the boys' or girls' time tables.
type Gender int

const (
	Female Gender = iota
	Male
)

// String returns "M" or "F".
func (g Gender) String() string {
	if g == Male {
		return "M"
	}
	return "F"
}

// ParseGender accepts "M" for male; anything else is female, as in the
// club's roster exports.
func ParseGender(s string) Gender {
	if strings.TrimSpace(s) == "M" {
		return Male
	}
	return Female
}

// Swimmer is a roster entry. Age is never stored; see AgeOn.
type Swimmer struct {
	ID          int
	LastName    string
	FirstName   string
	KnownAs     string
	Gender      Gender
	DateOfBirth time.Time
}

// FullName returns "First Last".
func (s Swimmer) FullName() string {
	return s.FirstName + " " + s.LastName
}

// AlternateName returns "KnownAs Last".
func (s Swimmer) AlternateName() string {
	return s.KnownAs + " " + s.LastName
}

// AgeOn returns the swimmer's age in whole years on date.
func (s Swimmer) AgeOn(date time.Time) int {
	return Age(s.DateOfBirth, date)
}

// String renders the swimmer in the roster's pipe-delimited form.
func (s Swimmer) String() string {
	return fmt.Sprintf("%d|%s|%s|%s|%s|%s", s.ID, s.LastName, s.FirstName, s.KnownAs, s.Gender, FormatDate(s.DateOfBirth))
}

// Age returns completed years between dob and on.
func Age(dob, on time.Time) int {
	years := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		years--
	}
	return years
}

// Date builds a calendar date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses dd/mm/yyyy into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a date as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// DaysBetween returns whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
