package intelligence

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"courtagent/models"
	"courtagent/services/booking"
	"courtagent/utils"

	"go.uber.org/zap"
)

// TextGenerator is the slice of the model client the oracle needs. Tests
// substitute a canned generator.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Oracle ranks candidate slots by asking a generative model to choose among
// them. The model only ever sees and returns indexes into the candidate list,
// so it cannot fabricate availability; anything unparseable is an error and
// the workflow falls back to deterministic ranking.
type Oracle struct {
	Generator TextGenerator
	Timeout   time.Duration
}

func NewOracle(generator TextGenerator) *Oracle {
	return &Oracle{Generator: generator, Timeout: 15 * time.Second}
}

var indexPattern = regexp.MustCompile(`\d+`)

func (o *Oracle) Rank(ctx context.Context, intent models.BookingIntent, candidates []models.CandidateSlot, maxResults int) ([]models.CandidateSlot, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if maxResults <= 0 || maxResults > len(candidates) {
		maxResults = len(candidates)
	}

	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	answer, err := o.Generator.GenerateText(ctx, rankPrompt(intent, candidates, maxResults))
	if err != nil {
		return nil, err
	}

	var ranked []models.CandidateSlot
	seen := make(map[int]bool)
	for _, line := range strings.Split(answer, "\n") {
		match := indexPattern.FindString(line)
		if match == "" {
			continue
		}
		idx, err := strconv.Atoi(match)
		if err != nil || idx < 1 || idx > len(candidates) || seen[idx] {
			continue
		}
		seen[idx] = true
		ranked = append(ranked, candidates[idx-1])
		if len(ranked) == maxResults {
			break
		}
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("oracle answer carried no usable slot indexes")
	}
	return ranked, nil
}

func rankPrompt(intent models.BookingIntent, candidates []models.CandidateSlot, maxResults int) string {
	var sb strings.Builder
	sb.WriteString("You help pick badminton court slots. The user asked: ")
	sb.WriteString(strconv.Quote(intent.RawText))
	sb.WriteString("\n")
	if intent.Time != nil {
		fmt.Fprintf(&sb, "Preferred time: %s.\n", models.FormatClock(*intent.Time))
	}
	if intent.Court != nil {
		fmt.Fprintf(&sb, "Preferred court: %d.\n", *intent.Court)
	}
	if intent.DurationMinutes != nil {
		fmt.Fprintf(&sb, "Preferred duration: %d minutes.\n", *intent.DurationMinutes)
	}
	sb.WriteString("Available slots:\n")
	for i, slot := range candidates {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, slot.Label())
	}
	fmt.Fprintf(&sb, "Reply with up to %d slot numbers, best first, one per line. Numbers only.\n", maxResults)
	return sb.String()
}

// OracleParser wraps a deterministic parser and asks the model to fill in a
// date only when the deterministic pass found none. Model failures are logged
// and ignored; the deterministic intent always stands.
type OracleParser struct {
	Generator TextGenerator
	Fallback  booking.IntentParser
	Timeout   time.Duration
}

func NewOracleParser(generator TextGenerator, fallback booking.IntentParser) *OracleParser {
	return &OracleParser{Generator: generator, Fallback: fallback, Timeout: 10 * time.Second}
}

var isoDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

func (p *OracleParser) Parse(text string) models.BookingIntent {
	intent := p.Fallback.Parse(text)
	if intent.Date != "" || p.Generator == nil {
		return intent
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Extract the requested booking date from %q. Today is %s. Reply with the date as YYYY-MM-DD, or NONE if there is no date.",
		text, time.Now().Format("2006-01-02"))
	answer, err := p.Generator.GenerateText(ctx, prompt)
	if err != nil {
		utils.GetLogger().Debug("oracle date extraction failed", zap.Error(err))
		return intent
	}
	if match := isoDatePattern.FindString(answer); match != "" {
		if _, err := time.Parse("2006-01-02", match); err == nil {
			intent.Date = match
		}
	}
	return intent
}
