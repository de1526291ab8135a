package main

import (
	"sort"
	"strings"
)

// SourceEdit is one text replacement, with byte offsets into the
// original content. Start == End inserts without removing anything.
type SourceEdit struct {
	Start int
	End   int
	Text  string
}

// ApplyEditsToContent applies edits to content. Overlapping edits are
// resolved by keeping the larger span (ties broken by the earlier
// start); nested smaller edits are dropped. Zero-length inserts at an
// edit boundary never conflict.
func ApplyEditsToContent(content string, edits []SourceEdit) string {
	if len(edits) == 0 {
		return content
	}

	ordered := make([]SourceEdit, len(edits))
	copy(ordered, edits)
	sort.Slice(ordered, func(i, j int) bool {
		lenI := ordered[i].End - ordered[i].Start
		lenJ := ordered[j].End - ordered[j].Start
		if lenI != lenJ {
			return lenI > lenJ
		}
		return ordered[i].Start < ordered[j].Start
	})

	var picked []SourceEdit
	for _, edit := range ordered {
		conflict := false
		for _, p := range picked {
			if edit.Start < p.End && p.Start < edit.End {
				conflict = true
				break
			}
		}
		if !conflict {
			picked = append(picked, edit)
		}
	}

	sort.Slice(picked, func(i, j int) bool {
		if picked[i].Start != picked[j].Start {
			return picked[i].Start < picked[j].Start
		}
		return picked[i].End < picked[j].End
	})

	var b strings.Builder
	cursor := 0
	for _, edit := range picked {
		if edit.Start < 0 || edit.End < edit.Start || edit.Start > len(content) {
			continue
		}
		if edit.Start > cursor {
			b.WriteString(content[cursor:edit.Start])
		}
		b.WriteString(edit.Text)
		cursor = edit.End
	}
	if cursor < len(content) {
		b.WriteString(content[cursor:])
	}

	return b.String()
}
