package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/okian/swimtimes/internal/domain/racetime"
)

const (
	qualifiersSheet  = "Qualifiers"
	notQualifiedFill = "#D9D9D9"
)

var qualifiersHeader = []interface{}{"Swimmer", "Age", "Event", "Time", "Standard", "Meet", "Date", "Status"} //nolint:gochecknoglobals // fixed header row

// WriteQualifiersWorkbook writes the qualifiers as an xlsx workbook, one row
// per record. Records set at excluded meets are shaded grey.
func WriteQualifiersWorkbook(w io.Writer, swimmers []model.SwimmerQualifiers) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", qualifiersSheet); err != nil {
		return fmt.Errorf("%w: workbook: %w", ErrWrite, err)
	}
	if err := f.SetSheetRow(qualifiersSheet, "A1", &qualifiersHeader); err != nil {
		return fmt.Errorf("%w: workbook: %w", ErrWrite, err)
	}
	grey, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{notQualifiedFill}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("%w: workbook: %w", ErrWrite, err)
	}

	row := 2
	for _, sq := range swimmers {
		for _, r := range sq.Records {
			status := "qualified"
			if !r.Qualifies {
				status = "not qualified"
			}
			values := []interface{}{
				sq.Swimmer.FullName(), sq.Age, r.Event.Name(),
				racetime.Format(r.Time), racetime.Format(r.Standard),
				r.Swim.Meet, model.FormatDate(r.Swim.Date), status,
			}
			first, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return fmt.Errorf("%w: workbook: %w", ErrWrite, err)
			}
			if err := f.SetSheetRow(qualifiersSheet, first, &values); err != nil {
				return fmt.Errorf("%w: workbook: %w", ErrWrite, err)
			}
			if !r.Qualifies {
				last, _ := excelize.CoordinatesToCellName(len(values), row)
				if err := f.SetCellStyle(qualifiersSheet, first, last, grey); err != nil {
					return fmt.Errorf("%w: workbook: %w", ErrWrite, err)
				}
			}
			row++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: workbook: %w", ErrWrite, err)
	}
	return nil
}
