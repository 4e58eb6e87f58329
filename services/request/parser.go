package request

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"courtagent/models"

	naturaldate "github.com/tj/go-naturaldate"
)

const dateLayout = "2006-01-02"

// Parser turns free-text booking requests into structured intents. Parsing is
// graceful: fragments it cannot recognize degrade to defaults instead of
// failing the request.
type Parser struct {
	// DefaultYear is assumed for dates written without one. Zero means the
	// year of the request.
	DefaultYear        int
	DefaultFlexibility int
	Now                func() time.Time
}

func NewParser(defaultYear, defaultFlexibility int) *Parser {
	return &Parser{
		DefaultYear:        defaultYear,
		DefaultFlexibility: defaultFlexibility,
		Now:                time.Now,
	}
}

var (
	meridiemTimePattern   = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	bareHourPattern       = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\b`)
	afterTimePattern      = regexp.MustCompile(`(?i)\b(?:after|from)\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	isoDatePattern        = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	slashDatePattern      = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}))?\b`)
	dayMonthPattern       = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b(?:\s+(\d{4}))?`)
	monthDayPattern       = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s*(\d{4}))?`)
	weekdayPattern        = regexp.MustCompile(`(?i)\b(?:next\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	courtNumberPattern    = regexp.MustCompile(`(?i)\bcourt\s*#?\s*(\d{1,2})\b`)
	courtWordPattern      = regexp.MustCompile(`(?i)\bcourt\s+([a-z]+)\b`)
	hourDurationPattern   = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:hours?|hrs?)\b`)
	minuteDurationPattern = regexp.MustCompile(`(?i)\b(\d+)\s*(?:minutes?|mins?)\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Words that follow "court" in normal phrasing without naming a court.
var courtStopWords = map[string]bool{
	"tomorrow": true, "today": true, "this": true, "that": true,
	"the": true, "any": true, "some": true, "on": true, "at": true,
	"for": true, "me": true, "a": true, "an": true,
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

// Parse extracts date, time, court, duration, strategy and interaction mode
// from a request like "book court #3 tomorrow at 7 PM for 2 hours".
func (p *Parser) Parse(text string) models.BookingIntent {
	now := p.now()
	lower := strings.ToLower(text)

	intent := models.BookingIntent{
		RawText:            text,
		FlexibilityMinutes: p.DefaultFlexibility,
		Strategy:           parseStrategy(lower),
		Mode:               parseMode(lower),
		Date:               p.parseDate(lower, now),
		Court:              parseCourt(lower),
		DurationMinutes:    parseDuration(lower),
	}
	p.parseTimes(lower, &intent)
	return intent
}

func (p *Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Parser) defaultYear(now time.Time) int {
	if p.DefaultYear > 0 {
		return p.DefaultYear
	}
	return now.Year()
}

func parseStrategy(lower string) models.BookingStrategy {
	for _, kw := range []string{"exactly", "exact", "specifically"} {
		if strings.Contains(lower, kw) {
			return models.StrategyExact
		}
	}
	for _, kw := range []string{"flexible", "around", "approximately"} {
		if strings.Contains(lower, kw) {
			return models.StrategyFlexible
		}
	}
	return models.StrategySmartFallback
}

// parseMode resolves the interaction mode. Conditional phrasing ("if it's
// exact") wins over automated phrasing, since "just book it if it's exact"
// asks for auto-booking only on a perfect match.
func parseMode(lower string) models.InteractionMode {
	for _, kw := range []string{"if exact", "if it's exact", "if its exact", "if possible", "if available"} {
		if strings.Contains(lower, kw) {
			return models.ModeHybrid
		}
	}
	for _, kw := range []string{"just book", "automatically", "book immediately"} {
		if strings.Contains(lower, kw) {
			return models.ModeAutomated
		}
	}
	return models.ModeConfirm
}

// parseTimes fills Time and AfterTime. An "after 6 PM" phrase is a lower
// bound, not a preference, so it is masked out before the preference search.
// Bare hours without a meridiem lean toward the evening: 6 through 11 read
// as PM.
func (p *Parser) parseTimes(lower string, intent *models.BookingIntent) {
	masked := lower
	if loc := afterTimePattern.FindStringSubmatchIndex(lower); loc != nil {
		match := afterTimePattern.FindStringSubmatch(lower)
		if minutes, ok := clockFromParts(match[1], match[2], match[3]); ok {
			intent.AfterTime = &minutes
			masked = lower[:loc[0]] + strings.Repeat(" ", loc[1]-loc[0]) + lower[loc[1]:]
		}
	}

	if m := meridiemTimePattern.FindStringSubmatch(masked); m != nil {
		if minutes, ok := clockFromParts(m[1], m[2], m[3]); ok {
			intent.Time = &minutes
			return
		}
	}
	if m := bareHourPattern.FindStringSubmatch(masked); m != nil {
		if minutes, ok := clockFromParts(m[1], m[2], ""); ok {
			intent.Time = &minutes
		}
	}
}

// clockFromParts converts regex captures to minutes from midnight. An empty
// meridiem applies the evening-leaning default.
func clockFromParts(hourStr, minuteStr, meridiem string) (int, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}
	minute := 0
	if minuteStr != "" {
		minute, err = strconv.Atoi(minuteStr)
		if err != nil || minute > 59 {
			return 0, false
		}
	}
	if meridiem == "" {
		if hour >= 6 && hour <= 11 {
			meridiem = "pm"
		} else {
			meridiem = "am"
		}
	}
	if hour == 12 {
		hour = 0
	}
	if strings.EqualFold(meridiem, "pm") {
		hour += 12
	}
	return hour*60 + minute, true
}

func (p *Parser) parseDate(lower string, now time.Time) string {
	if strings.Contains(lower, "tomorrow") {
		return now.AddDate(0, 0, 1).Format(dateLayout)
	}
	if strings.Contains(lower, "today") {
		return now.Format(dateLayout)
	}

	if m := isoDatePattern.FindStringSubmatch(lower); m != nil {
		if date, ok := buildDate(m[1], m[2], m[3]); ok {
			return date
		}
	}
	if m := dayMonthPattern.FindStringSubmatch(lower); m != nil {
		year := m[3]
		if year == "" {
			year = strconv.Itoa(p.defaultYear(now))
		}
		if date, ok := buildNamedDate(year, m[2], m[1]); ok {
			return date
		}
	}
	if m := monthDayPattern.FindStringSubmatch(lower); m != nil {
		year := m[3]
		if year == "" {
			year = strconv.Itoa(p.defaultYear(now))
		}
		if date, ok := buildNamedDate(year, m[1], m[2]); ok {
			return date
		}
	}
	if m := slashDatePattern.FindStringSubmatch(lower); m != nil {
		year := m[3]
		if year == "" {
			year = strconv.Itoa(p.defaultYear(now))
		}
		if date, ok := buildDate(year, m[1], m[2]); ok {
			return date
		}
	}
	if phrase := weekdayPattern.FindString(lower); phrase != "" {
		if t, err := naturaldate.Parse(phrase, now, naturaldate.WithDirection(naturaldate.Future)); err == nil {
			return t.Format(dateLayout)
		}
	}
	return ""
}

func buildDate(yearStr, monthStr, dayStr string) (string, bool) {
	year, err1 := strconv.Atoi(yearStr)
	month, err2 := strconv.Atoi(monthStr)
	day, err3 := strconv.Atoi(dayStr)
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format(dateLayout), true
}

func buildNamedDate(yearStr, monthName, dayStr string) (string, bool) {
	key := monthName
	if len(key) > 3 {
		key = key[:3]
	}
	month, ok := months[key]
	if !ok {
		return "", false
	}
	return buildDate(yearStr, strconv.Itoa(int(month)), dayStr)
}

func parseCourt(lower string) *int {
	if m := courtNumberPattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return &n
		}
	}
	if m := courtWordPattern.FindStringSubmatch(lower); m != nil {
		word := m[1]
		if courtStopWords[word] {
			return nil
		}
		if n, ok := numberWords[word]; ok {
			return &n
		}
	}
	return nil
}

func parseDuration(lower string) *int {
	if m := hourDurationPattern.FindStringSubmatch(lower); m != nil {
		if hours, err := strconv.ParseFloat(m[1], 64); err == nil && hours > 0 {
			minutes := int(hours*60 + 0.5)
			return &minutes
		}
	}
	if m := minuteDurationPattern.FindStringSubmatch(lower); m != nil {
		if minutes, err := strconv.Atoi(m[1]); err == nil && minutes > 0 {
			return &minutes
		}
	}
	return nil
}
