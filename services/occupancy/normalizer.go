package occupancy

import (
	"fmt"
	"regexp"
	"strings"

	"courtagent/models"
)

// ParseError reports an observation whose text did not carry a usable time
// range. One bad observation never invalidates a scan; callers skip it and
// keep a count.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable observation %q: %s", e.Text, e.Reason)
}

// The grid prints booked ranges as "1:00 PM–4:00 PM", with either an en dash
// or a plain hyphen, and sometimes a narrow no-break space before the
// meridiem marker.
var timeRangePattern = regexp.MustCompile(`(?i)(\d{1,2}:\d{2} ?[AP]M) ?[–-] ?(\d{1,2}:\d{2} ?[AP]M)`)

// NormalizeObservation turns one raw observation plus its resolved court
// column into a BookedInterval. Texts with no time range, more than one time
// range (ambiguous), or an inverted range produce a ParseError.
func NormalizeObservation(obs models.RawObservation, column models.CourtColumn) (models.BookedInterval, error) {
	text := strings.ReplaceAll(obs.Text, " ", " ")
	text = strings.ReplaceAll(text, " ", " ")

	matches := timeRangePattern.FindAllStringSubmatch(text, -1)
	switch {
	case len(matches) == 0:
		return models.BookedInterval{}, &ParseError{Text: obs.Text, Reason: "no time range found"}
	case len(matches) > 1:
		return models.BookedInterval{}, &ParseError{Text: obs.Text, Reason: "multiple time ranges found"}
	}

	start, err := models.ParseClock(matches[0][1])
	if err != nil {
		return models.BookedInterval{}, &ParseError{Text: obs.Text, Reason: err.Error()}
	}
	end, err := models.ParseClock(matches[0][2])
	if err != nil {
		return models.BookedInterval{}, &ParseError{Text: obs.Text, Reason: err.Error()}
	}
	if start >= end {
		return models.BookedInterval{}, &ParseError{Text: obs.Text, Reason: "range start is not before end"}
	}

	return models.BookedInterval{
		CourtID:    column.ID,
		Start:      start,
		End:        end,
		SourceText: strings.TrimSpace(obs.Text),
	}, nil
}
