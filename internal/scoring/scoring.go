// Package scoring decides whether an attempt counts as correct.
//
// Plugged attempt values reach the application with whatever type the
// storage driver produced, so comparisons go through one canonical form:
// values that read as finite decimal numbers are rendered in their shortest
// exact decimal representation (5, "5", 5.0 and " 5.00 " all become "5"),
// and any other text is compared after trimming surrounding whitespace.
// Numeric strings are parsed exactly, so integers beyond 2^53 keep every digit.
package scoring

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Canonical returns the comparison form of v. The second result is false
// when v holds no value (nil or a nil pointer).
func Canonical(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return canonicalText(val), true
	case []byte:
		if val == nil {
			return "", false
		}
		return canonicalText(string(val)), true
	case *string:
		if val == nil {
			return "", false
		}
		return canonicalText(*val), true
	case int:
		return strconv.FormatInt(int64(val), 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case *int64:
		if val == nil {
			return "", false
		}
		return strconv.FormatInt(*val, 10), true
	case float32:
		return canonicalFloat(float64(val)), true
	case float64:
		return canonicalFloat(val), true
	case *float64:
		if val == nil {
			return "", false
		}
		return canonicalFloat(*val), true
	default:
		return canonicalText(fmt.Sprint(val)), true
	}
}

// decimalPattern matches plain decimal numbers with an optional exponent.
// Hex, fractions and Inf/NaN spellings stay text.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

func canonicalText(s string) string {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return s
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}

	// ParseFloat bounds the exponent before the exact parse below
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return s
	}
	if f == 0 {
		return "0"
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return s
	}
	return canonicalRat(r)
}

// canonicalRat renders a terminating decimal exactly, without trailing zeros
func canonicalRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.FloatString(fractionDigits(r.Denom()))
}

// fractionDigits returns how many decimal places 1/den needs. den comes from
// a decimal string, so it only has the prime factors 2 and 5.
func fractionDigits(den *big.Int) int {
	d := new(big.Int).Set(den)
	twos := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		twos++
	}

	five := big.NewInt(5)
	q, m := new(big.Int), new(big.Int)
	fives := 0
	for {
		q.QuoRem(d, five, m)
		if m.Sign() != 0 {
			break
		}
		d.Set(q)
		fives++
	}

	return max(twos, fives)
}

func canonicalFloat(f float64) string {
	if f == 0 {
		// fold -0 into 0
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ValuesMatch reports whether a selection equals the expected value.
// A missing value on either side never matches.
func ValuesMatch(selected, correct any) bool {
	s, ok := Canonical(selected)
	if !ok {
		return false
	}
	c, ok := Canonical(correct)
	if !ok {
		return false
	}
	return s == c
}

// PositiveScore reports whether score is present and strictly greater than zero
func PositiveScore(score *float64) bool {
	return score != nil && *score > 0
}

// GradedCorrect applies the graded response rule: a positive score or a
// linked option flagged correct is enough on its own. When the two disagree
// the response still counts as correct.
func GradedCorrect(score *float64, optionCorrect *bool) bool {
	if PositiveScore(score) {
		return true
	}
	return optionCorrect != nil && *optionCorrect
}

// PluggedCorrect applies the plugged attempt rule in priority order:
// a positive score wins, otherwise the selection must match the target.
func PluggedCorrect(score *float64, selected, correct any) bool {
	if PositiveScore(score) {
		return true
	}
	return ValuesMatch(selected, correct)
}
