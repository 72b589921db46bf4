package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/swimtimes/internal/domain/event"
	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/okian/swimtimes/internal/domain/racetime"
)

const (
	fieldSep        = "|"
	swimmerFields   = 6
	swimV1Fields    = 9
	versionPrefix   = "V"
	unlicensedToken = "n"
)

// SwimRecord is one decoded swim row. Each supported layout has its own
// variant; Swim converts it to the domain record.
type SwimRecord interface {
	Version() int
	Swim() (model.Swim, error)
}

// SwimRecordV1 is the layout
// V1|swimmerID|eventCode|dd/mm/yyyy|meet|swimID|splits|y/n|seconds.
type SwimRecordV1 struct {
	SwimmerID int
	EventCode int
	Date      time.Time
	Meet      string
	// SwimID is -1 in exports when the governing body assigned none.
	SwimID   int
	Splits   string
	Licensed bool
	RaceTime float64
}

// Version implements SwimRecord.
func (SwimRecordV1) Version() int { return 1 }

// Swim implements SwimRecord.
func (r SwimRecordV1) Swim() (model.Swim, error) {
	e, err := event.ByCode(r.EventCode)
	if err != nil {
		return model.Swim{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	swimID := r.SwimID
	if swimID < 0 {
		swimID = 0
	}
	s, err := model.NewSwim(r.SwimmerID, swimID, e, r.Date, r.Meet, r.Licensed, r.RaceTime)
	if err != nil {
		return model.Swim{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return s, nil
}

type swimDecoder func(fields []string) (SwimRecord, error)

var swimDecoders = map[int]swimDecoder{ //nolint:gochecknoglobals // immutable dispatch table
	1: decodeSwimV1,
}

// DecodeSwim dispatches a swim row on its version tag.
func DecodeSwim(line string) (SwimRecord, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), fieldSep)
	version := 0
	if tag := fields[0]; strings.HasPrefix(tag, versionPrefix) {
		v, err := strconv.Atoi(tag[len(versionPrefix):])
		if err != nil {
			return nil, fmt.Errorf("%w: tag %q", ErrUnsupportedVersion, tag)
		}
		version = v
	}
	decode, ok := swimDecoders[version]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return decode(fields)
}

func decodeSwimV1(fields []string) (SwimRecord, error) {
	if len(fields) != swimV1Fields {
		return nil, fmt.Errorf("%w: V1 swim has %d fields, want %d", ErrMalformedRecord, len(fields), swimV1Fields)
	}
	var (
		r   SwimRecordV1
		err error
	)
	if r.SwimmerID, err = atoi("swimmer id", fields[1]); err != nil {
		return nil, err
	}
	if r.EventCode, err = atoi("event code", fields[2]); err != nil {
		return nil, err
	}
	if r.Date, err = model.ParseDate(fields[3]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	r.Meet = fields[4]
	if r.SwimID, err = atoi("swim id", fields[5]); err != nil {
		return nil, err
	}
	r.Splits = fields[6]
	r.Licensed = strings.TrimSpace(fields[7]) != unlicensedToken
	if r.RaceTime, err = racetime.Parse(fields[8]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return r, nil
}

// DecodeSwimmer parses id|last|first|knownAs|M/F|dd/mm/yyyy.
func DecodeSwimmer(line string) (model.Swimmer, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), fieldSep)
	if len(fields) != swimmerFields {
		return model.Swimmer{}, fmt.Errorf("%w: swimmer has %d fields, want %d", ErrMalformedRecord, len(fields), swimmerFields)
	}
	id, err := atoi("swimmer id", fields[0])
	if err != nil {
		return model.Swimmer{}, err
	}
	dob, err := model.ParseDate(fields[5])
	if err != nil {
		return model.Swimmer{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return model.Swimmer{
		ID:          id,
		LastName:    fields[1],
		FirstName:   fields[2],
		KnownAs:     fields[3],
		Gender:      model.ParseGender(fields[4]),
		DateOfBirth: dob,
	}, nil
}

func atoi(what, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedRecord, what, s)
	}
	return n, nil
}
