package normalize

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Field extraction works on ordered candidate lists: each candidate names a
// path into the record and a conversion. The first candidate whose path
// resolves and whose conversion matches wins. A conversion may also halt
// the scan, leaving the field null without trying later candidates.

type outcome int

const (
	// miss: value present but not usable, try the next candidate.
	miss outcome = iota
	// match: converted value accepted.
	match
	// halt: stop scanning, the field is null. Used by year parsing, which
	// gives up on the first unparseable string instead of moving on.
	halt
)

type candidate struct {
	path []string
	conv func(v any) (any, outcome)
}

// lookupPath walks nested objects along path. Missing keys or non-object
// intermediate values resolve to not-found.
func lookupPath(record map[string]any, path []string) (any, bool) {
	var current any = record
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// firstMatch evaluates candidates in order and returns the first converted
// value. Returns false when nothing matched or a conversion halted.
func firstMatch(record map[string]any, candidates []candidate) (any, bool) {
	for _, c := range candidates {
		v, ok := lookupPath(record, c.path)
		if !ok {
			continue
		}
		converted, out := c.conv(v)
		switch out {
		case match:
			return converted, true
		case halt:
			return nil, false
		}
	}
	return nil, false
}

// asString matches string values only.
func asString(v any) (any, outcome) {
	if s, ok := v.(string); ok {
		return s, match
	}
	return nil, miss
}

// asStringOrInt matches strings as-is and whole numbers stringified.
// Fractional numbers miss.
func asStringOrInt(v any) (any, outcome) {
	switch t := v.(type) {
	case string:
		return t, match
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10), match
		}
	}
	return nil, miss
}

// asYear matches whole numbers as integers and parses strings. A string
// that fails to parse halts the scan: the field is null, later candidates
// are not tried.
func asYear(v any) (any, outcome) {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) {
			return int(t), match
		}
		return nil, miss
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, halt
		}
		return n, match
	default:
		return nil, miss
	}
}

// Language priorities for multilingual objects. Titles also accept
// Japanese; tag names follow the original source data, which only carries
// en/ru variants.
var (
	titleLangs = []string{"en", "ru", "ja"}
	tagLangs   = []string{"en", "ru"}
)

// asLangString matches a plain string directly. For a language-keyed object
// it prefers en, ru, ja (non-empty only), then falls back to any
// string-valued entry (smallest key, for determinism).
func asLangString(v any) (any, outcome) {
	switch t := v.(type) {
	case string:
		return t, match
	case map[string]any:
		if s, ok := pickLang(t, titleLangs); ok {
			return s, match
		}
	}
	return nil, miss
}

// pickLang resolves a language-keyed object to a single string.
func pickLang(m map[string]any, langs []string) (string, bool) {
	for _, lang := range langs {
		if s, ok := m[lang].(string); ok && s != "" {
			return s, true
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s, true
		}
	}
	return "", false
}
