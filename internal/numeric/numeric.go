// Package numeric converts between Danish-formatted number text and float64.
//
// Input text uses space or period as thousands separator and comma as decimal
// separator. Output uses the comma decimal mark without grouping.
package numeric

import (
	"math"
	"strconv"
	"strings"
)

// CurrencySuffix is appended by FormatCurrency.
const CurrencySuffix = "kr"

// Normalize converts v to a float64. Empty, nil or unparseable input yields
// def. It never fails.
func Normalize(v any, def float64) float64 {
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case string:
		return parse(n, def)
	case []byte:
		return parse(string(n), def)
	case interface{ String() string }:
		return parse(n.String(), def)
	default:
		return def
	}
}

func parse(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	// reject hex floats such as 0x1p-2
	if strings.ContainsAny(s, "xXpP") {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// Format renders v with the given number of decimals and a comma decimal mark.
// Strings are normalized with default 0 first.
func Format(v any, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	x := Normalize(v, 0)
	return strings.Replace(strconv.FormatFloat(x, 'f', decimals, 64), ".", ",", 1)
}

// FormatCurrency is Format followed by the currency suffix.
func FormatCurrency(v any, decimals int) string {
	return Format(v, decimals) + " " + CurrencySuffix
}
