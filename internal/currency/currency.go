package currency

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	numberToken = regexp.MustCompile(`\d+\.?\d*`)
	usdMarker   = regexp.MustCompile(`(?i)usd`)
)

// Normalizer rewrites free-text salary strings as euro ranges.
type Normalizer struct {
	usdToEUR float64
	gbpToEUR float64
}

// NewNormalizer returns a Normalizer using the given rates.
func NewNormalizer(usdToEUR, gbpToEUR float64) *Normalizer {
	return &Normalizer{usdToEUR: usdToEUR, gbpToEUR: gbpToEUR}
}

// Convert returns s as "<min>€ - <max>€" with two decimals. It reports false
// when s carries no number, or carries letters without a $ or £ marker.
//
// A lone number becomes a degenerate range. Only the first two numbers
// count. Strings without a currency marker are taken as euros already.
func (n *Normalizer) Convert(s string) (string, bool) {
	hasDollar := strings.Contains(s, "$")
	hasPound := strings.Contains(s, "£")
	if !hasDollar && !hasPound && strings.IndexFunc(s, unicode.IsLetter) >= 0 {
		return "", false
	}

	tokens := numberToken.FindAllString(strings.ReplaceAll(s, ",", ""), 2)
	if len(tokens) == 0 {
		return "", false
	}
	low, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return "", false
	}
	high := low
	if len(tokens) > 1 {
		if high, err = strconv.ParseFloat(tokens[1], 64); err != nil {
			return "", false
		}
	}

	rate := 1.0
	switch {
	case hasDollar || usdMarker.MatchString(s):
		rate = n.usdToEUR
	case hasPound:
		rate = n.gbpToEUR
	}

	return fmt.Sprintf("%.2f€ - %.2f€", low*rate, high*rate), true
}

// ConvertPtr is Convert with nil standing in for an unrepresentable salary.
func (n *Normalizer) ConvertPtr(s string) *string {
	out, ok := n.Convert(s)
	if !ok {
		return nil
	}
	return &out
}
