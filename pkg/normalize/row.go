package normalize

import "strconv"

// Row is one normalized manga record. MangaID is always set; every other
// field is nullable and stays nil when no candidate matched.
type Row struct {
	MangaID     string
	Title       *string
	Status      *string
	LastChapter *string
	Year        *int
	Tags        *string
	UpdatedAt   *string
}

// Columns returns the fixed output column order.
func Columns() []string {
	return []string{"MANGA_ID", "TITLE", "STATUS", "LAST_CHAPTER", "YEAR", "TAGS", "UPDATED_AT"}
}

// Strings renders the row in column order, with empty cells for nulls.
func (r Row) Strings() []string {
	out := make([]string, 0, 7)
	out = append(out, r.MangaID)
	out = append(out, deref(r.Title), deref(r.Status), deref(r.LastChapter))
	if r.Year != nil {
		out = append(out, strconv.Itoa(*r.Year))
	} else {
		out = append(out, "")
	}
	out = append(out, deref(r.Tags), deref(r.UpdatedAt))
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
