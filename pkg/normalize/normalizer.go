// Package normalize extracts a fixed tabular schema from heterogeneous raw
// manga records.
//
// Source records arrive in deeply inconsistent shapes: flat objects, the
// MangaDex-style attributes envelope, multilingual title maps, tag lists of
// three different element forms. Normalization is total: every field
// degrades to null on a shape mismatch, so one malformed record can never
// abort a transform run.
package normalize

import (
	"encoding/json"
	"strings"
)

// idFallbackLen caps the canonical-JSON fallback identifier.
const idFallbackLen = 64

// Candidate lists per field, evaluated in order. Paths are relative to the
// record root.
var (
	idCandidates = []candidate{
		{path: []string{"id"}, conv: asStringOrInt},
		{path: []string{"mangaId"}, conv: asStringOrInt},
		{path: []string{"manga_id"}, conv: asStringOrInt},
		{path: []string{"uuid"}, conv: asStringOrInt},
	}

	titleCandidates = []candidate{
		{path: []string{"title"}, conv: asLangString},
		{path: []string{"attributes", "title"}, conv: asLangString},
	}

	statusCandidates = []candidate{
		{path: []string{"status"}, conv: asString},
		{path: []string{"attributes", "status"}, conv: asString},
	}

	lastChapterCandidates = []candidate{
		{path: []string{"lastChapter"}, conv: asStringOrInt},
		{path: []string{"last_chapter"}, conv: asStringOrInt},
		{path: []string{"attributes", "lastChapter"}, conv: asStringOrInt},
		{path: []string{"attributes", "last_chapter"}, conv: asStringOrInt},
	}

	yearCandidates = []candidate{
		{path: []string{"year"}, conv: asYear},
		{path: []string{"attributes", "year"}, conv: asYear},
		{path: []string{"publishYear"}, conv: asYear},
		{path: []string{"attributes", "publishYear"}, conv: asYear},
	}

	updatedAtCandidates = []candidate{
		{path: []string{"updatedAt"}, conv: asString},
		{path: []string{"attributes", "updatedAt"}, conv: asString},
	}
)

// Normalize maps one raw record to a Row. Pure and total: it never fails,
// missing or malformed fields yield null.
func Normalize(record map[string]any) Row {
	row := Row{MangaID: extractID(record)}

	if v, ok := firstMatch(record, titleCandidates); ok {
		row.Title = strPtr(v.(string))
	}
	if v, ok := firstMatch(record, statusCandidates); ok {
		row.Status = strPtr(v.(string))
	}
	if v, ok := firstMatch(record, lastChapterCandidates); ok {
		row.LastChapter = strPtr(v.(string))
	}
	if v, ok := firstMatch(record, yearCandidates); ok {
		year := v.(int)
		row.Year = &year
	}
	if tags, ok := extractTags(record); ok {
		row.Tags = strPtr(tags)
	}
	if v, ok := firstMatch(record, updatedAtCandidates); ok {
		row.UpdatedAt = strPtr(v.(string))
	}

	return row
}

// extractID returns the first id-like value, or a deterministic canonical
// serialization of the whole record, truncated to 64 characters. The
// fallback is stable across reruns because map serialization sorts keys.
func extractID(record map[string]any) string {
	if v, ok := firstMatch(record, idCandidates); ok {
		return v.(string)
	}
	data, err := json.Marshal(record)
	if err != nil {
		// map[string]any decoded from JSON always remarshals
		return "{}"
	}
	if len(data) > idFallbackLen {
		data = data[:idFallbackLen]
	}
	return string(data)
}

// extractTags collects tag names from the top-level tags list, falling back
// to attributes.tags when the former is absent or empty. Elements may be
// bare name strings, objects with a string name, or objects carrying a
// language-keyed name under their own attributes. Names are joined with
// ", "; no names means null.
func extractTags(record map[string]any) (string, bool) {
	list := tagList(record)
	var names []string
	for _, el := range list {
		switch t := el.(type) {
		case string:
			if t != "" {
				names = append(names, t)
			}
		case map[string]any:
			if name, ok := t["name"].(string); ok {
				if name != "" {
					names = append(names, name)
				}
				continue
			}
			if nested, ok := lookupPath(t, []string{"attributes", "name"}); ok {
				if langMap, ok := nested.(map[string]any); ok {
					if name, ok := pickLang(langMap, tagLangs); ok && name != "" {
						names = append(names, name)
					}
				}
			}
		}
	}
	if len(names) == 0 {
		return "", false
	}
	return strings.Join(names, ", "), true
}

// tagList resolves which tag list to read: top-level wins when it is a
// non-empty list, otherwise attributes.tags.
func tagList(record map[string]any) []any {
	if v, ok := record["tags"].([]any); ok && len(v) > 0 {
		return v
	}
	if v, ok := lookupPath(record, []string{"attributes", "tags"}); ok {
		if list, ok := v.([]any); ok {
			return list
		}
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
