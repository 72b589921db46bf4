package standards

import (
	_ "embed"
	"sync"
)

// Age ranges of the embedded tables.
const (
	QualifyingMinAge = 12
	QualifyingMaxAge = 17
	NoTimeMinAge     = 9
	NoTimeMaxAge     = 16
)

var (
	//go:embed data/qt_boys.tsv
	qtBoys string
	//go:embed data/qt_girls.tsv
	qtGirls string
	//go:embed data/nt_boys.tsv
	ntBoys string
	//go:embed data/nt_girls.tsv
	ntGirls string
)

var (
	qualifyingOnce sync.Once
	qualifying     Tables
	qualifyingErr  error

	noTimeOnce sync.Once
	noTime     Tables
	noTimeErr  error
)

// Qualifying returns the embedded qualifying standards, parsed on first use.
func Qualifying() (Tables, error) {
	qualifyingOnce.Do(func() {
		qualifying, qualifyingErr = parsePair("qualifying", QualifyingMinAge, QualifyingMaxAge, qtBoys, qtGirls)
	})
	return qualifying, qualifyingErr
}

// NoTime returns the embedded NT fallback consideration times, parsed on first use.
func NoTime() (Tables, error) {
	noTimeOnce.Do(func() {
		noTime, noTimeErr = parsePair("no-time", NoTimeMinAge, NoTimeMaxAge, ntBoys, ntGirls)
	})
	return noTime, noTimeErr
}

func parsePair(kind string, minAge, maxAge int, boys, girls string) (Tables, error) {
	b, err := ParseTable(kind+" boys", minAge, maxAge, boys)
	if err != nil {
		return Tables{}, err
	}
	g, err := ParseTable(kind+" girls", minAge, maxAge, girls)
	if err != nil {
		return Tables{}, err
	}
	return Tables{Boys: b, Girls: g}, nil
}
