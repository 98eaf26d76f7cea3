// Package sanitize normalizes untrusted values before they enter typed records.
// Model responses are duck-typed documents; every field passes through here on
// its way into a CandidateProfile or RankedCandidate.
package sanitize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

var (
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	whitespaceRuns = regexp.MustCompile(`\s{3,}`)
	nonNumeric     = regexp.MustCompile(`[^0-9+\-.]`)
)

// String coerces a value to text, strips control characters, collapses runs of
// three or more whitespace characters to a single space, truncates to maxLen
// and trims. Returns nil for absent or effectively empty input.
func String(value any, maxLen int) *string {
	text := coerceText(value)
	if text == "" {
		return nil
	}

	text = controlChars.ReplaceAllString(text, "")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	text = Truncate(text, maxLen)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}

// Truncate cuts s to at most maxLen bytes without splitting a UTF-8 sequence,
// backing up to the nearest rune boundary. maxLen <= 0 means no limit.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// StringArray accepts either a sequence or a delimited string (split on ";",
// "," or newline), sanitizes each element, drops empties, deduplicates keeping
// first-seen order and caps the result at maxItems. Returns nil if nothing
// survives.
func StringArray(value any, maxItems int) []string {
	var raw []any

	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		raw = v
	case []string:
		for _, s := range v {
			raw = append(raw, s)
		}
	case string:
		for _, part := range splitDelimited(v) {
			raw = append(raw, part)
		}
	default:
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, item := range raw {
		s := String(item, 200)
		if s == nil {
			continue
		}
		if seen[*s] {
			continue
		}
		seen[*s] = true
		out = append(out, *s)
		if maxItems > 0 && len(out) >= maxItems {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Int strips everything but digits, signs and dots from the value's textual
// form, parses it as a float and floors it. Returns nil for non-finite or
// unparsable input.
func Int(value any) *int {
	text := coerceText(value)
	if text == "" {
		return nil
	}

	text = nonNumeric.ReplaceAllString(text, "")
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Floor(f))
	return &n
}

// JSONDocument extracts a valid JSON object from near-valid model output. It
// strips markdown code-fence wrappers and embedded control characters, then
// tries the text as-is; on failure it retries with the substring between the
// first "{" and the last "}". Returns "" if both attempts fail.
func JSONDocument(text string) string {
	text = stripCodeFence(text)
	text = controlChars.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if gjson.Valid(text) {
		return text
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidate := text[start : end+1]
		if gjson.Valid(candidate) {
			return candidate
		}
	}
	return ""
}

// stripCodeFence removes markdown code block wrappers. Models often wrap JSON
// in ```json ... ``` blocks even when instructed not to.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := strings.TrimSpace(text[:idx])
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	return text
}

// coerceText renders a scalar value as text. Composite values yield "".
func coerceText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// splitDelimited splits a delimited string on semicolons, commas and newlines.
func splitDelimited(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ',' || r == '\n'
	})
}
