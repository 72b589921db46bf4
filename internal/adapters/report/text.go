// Package report writes batch results in the club's plain-text layouts.
// Swimmer blocks are separated by a single blank line.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/okian/swimtimes/internal/domain/racetime"
)

// WriteConsiderationTimes writes the machine-readable consideration file:
// the swimmer row, then "event|time" for every event with a time.
func WriteConsiderationTimes(w io.Writer, swimmers []model.SwimmerConsideration) error {
	bw := bufio.NewWriter(w)
	for i, sc := range swimmers {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw, sc.Swimmer.String())
		for _, ct := range sc.Times {
			if ct.HasTime {
				fmt.Fprintf(bw, "%s|%s\n", ct.Event.Name(), racetime.Format(ct.Time))
			}
		}
	}
	return flush(bw, "consideration times")
}

// WriteConsiderationTimesVerbose writes the human-readable consideration
// file with the reason behind every time.
func WriteConsiderationTimesVerbose(w io.Writer, swimmers []model.SwimmerConsideration) error {
	bw := bufio.NewWriter(w)
	for i, sc := range swimmers {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintf(bw, "%s, %d\n", sc.EntryName, sc.Age)
		for _, ct := range sc.Times {
			if ct.HasTime {
				fmt.Fprintf(bw, "\n%s: %s\n%s\n", ct.Event.Name(), racetime.Format(ct.Time), ct.Reason)
			}
		}
	}
	return flush(bw, "verbose consideration times")
}

// WriteQualifiers writes "Name (age)" followed by one tab-indented line per
// record. Records set at excluded meets carry a trailing "not qualified".
func WriteQualifiers(w io.Writer, swimmers []model.SwimmerQualifiers) error {
	bw := bufio.NewWriter(w)
	for _, sq := range swimmers {
		if len(sq.Records) == 0 {
			continue
		}
		fmt.Fprintf(bw, "%s (%d)\n", sq.Swimmer.FullName(), sq.Age)
		for _, r := range sq.Records {
			fmt.Fprintf(bw, "\t%s\t%s\t%s\t%s", r.Event.Name(), racetime.Format(r.Time), r.Swim.Meet, model.FormatDate(r.Swim.Date))
			if !r.Qualifies {
				fmt.Fprint(bw, "\tnot qualified")
			}
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw)
	}
	return flush(bw, "qualifiers")
}

// WriteRaceTimes writes the swimmer row then "event|time" for each club
// championship swim, using the time as swum.
func WriteRaceTimes(w io.Writer, swimmers []model.SwimmerChamps) error {
	bw := bufio.NewWriter(w)
	for i, sc := range swimmers {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw, sc.Swimmer.String())
		for _, s := range sc.Swims {
			fmt.Fprintf(bw, "%s|%s\n", s.Event.Name(), racetime.Format(s.RaceTime))
		}
	}
	return flush(bw, "race times")
}

// WriteMissingEntries writes one unmatched entry-list name per line.
func WriteMissingEntries(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	for _, n := range names {
		fmt.Fprintln(bw, n)
	}
	return flush(bw, "missing entries")
}

func flush(bw *bufio.Writer, what string) error {
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, what, err)
	}
	return nil
}
