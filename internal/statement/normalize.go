package statement

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesapeak/pesapeak/internal/model"
)

var (
	amountCleaner = strings.NewReplacer(`"`, "", "'", "", ",", "")
	isoDatePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// NormalizeAmount converts "1,234.50" to 123450 minor units.
// Empty, non-numeric or out-of-range input yields 0; it never fails.
func NormalizeAmount(raw string) int64 {
	s := strings.TrimSpace(amountCleaner.Replace(raw))
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	minor := d.Shift(2).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return 0
	}
	return minor.IntPart()
}

// NormalizeDate converts DD/MM/YYYY and YYYY-MM-DD[ time] to YYYY-MM-DD.
// Anything else is returned trimmed and unchanged.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
	if s == "" {
		return ""
	}

	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) != 3 {
			return s
		}
		day := strings.TrimSpace(parts[0])
		month := strings.TrimSpace(parts[1])
		// "01/06/2025 10:15" keeps only the year.
		year, _, _ := strings.Cut(strings.TrimSpace(parts[2]), " ")
		return fmt.Sprintf("%s-%s-%s", year, padTwo(month), padTwo(day))
	}

	if m := isoDatePrefix.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

func padTwo(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// canonicalDate normalizes raw and rejects results that are not a calendar date.
func canonicalDate(raw string) (string, error) {
	d := NormalizeDate(raw)
	if _, err := time.Parse(model.DateFormat, d); err != nil {
		return "", fmt.Errorf("invalid date %q", strings.TrimSpace(raw))
	}
	return d, nil
}

// cleanText trims whitespace and surrounding quotes.
func cleanText(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"'`))
}
