// Package naming builds filesystem-safe names for generated artifacts.
package naming

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"businesscase/internal/domain"
)

// FallbackName is used when the process name sanitizes to nothing.
const FallbackName = "RPA_BusinessCase"

// StampLayout is the yyyyMMdd_HHmm timestamp used in file names.
const StampLayout = "20060102_1504"

var danish = strings.NewReplacer(
	"æ", "ae", "Æ", "Ae",
	"ø", "oe", "Ø", "Oe",
	"å", "aa", "Å", "Aa",
)

const reserved = " /\\:*?\"<>|"

// SafeName transliterates and strips characters that are not safe in file
// names on common filesystems.
func SafeName(s string) string {
	s = danish.Replace(strings.TrimSpace(s))
	s = stripAccents(s)
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(reserved, r) || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, s)
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Base returns the safe base name for a process, falling back to
// FallbackName.
func Base(processName string) string {
	if b := SafeName(processName); strings.Trim(b, "_") != "" {
		return b
	}
	return FallbackName
}

// Extension returns the file extension for an artifact kind.
func Extension(kind domain.ArtifactKind) string {
	if kind == domain.ArtifactSpreadsheet {
		return "xlsx"
	}
	return "docx"
}

// FileName renders {base}_{tag}_{yyyyMMdd_HHmm}.{ext}.
func FileName(processName string, kind domain.ArtifactKind, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s.%s", Base(processName), kind, at.Format(StampLayout), Extension(kind))
}
