// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package patent converts provider search hits into PatentRecords keyed by a
// canonical patent number.
package patent

import (
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/patent-copilot/pkg/types"
)

// CanonicalID reduces a provider patent number to its identity key:
// uppercase letters and digits only. Google Patents paths such as
// "patent/US11234567B2/en" are reduced to the number segment first; any other
// slash is punctuation, so "US 2020/0123456 A1" keeps its country and year.
// Kind codes are kept, so "US1234567B2" and "US1234567A1" are distinct patents.
func CanonicalID(raw string) string {
	raw = strings.TrimSpace(raw)
	if seg, ok := patentPathNumber(raw); ok {
		raw = seg
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r > unicode.MaxASCII {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// patentPathNumber returns the segment following "patent" in a Google
// Patents path or URL.
func patentPathNumber(raw string) (string, bool) {
	parts := strings.Split(raw, "/")
	for i := 0; i+1 < len(parts); i++ {
		if strings.EqualFold(parts[i], "patent") && parts[i+1] != "" {
			return parts[i+1], true
		}
	}
	return "", false
}

// Normalize converts a raw hit into a record attributed to strategyID. It
// reports false when the hit has no usable patent number.
func Normalize(hit types.RawHit, strategyID int) (types.PatentRecord, bool) {
	id := CanonicalID(hit.ID)
	if id == "" {
		return types.PatentRecord{}, false
	}
	return types.PatentRecord{
		CanonicalID:      id,
		Title:            cleanText(hit.Title),
		Snippet:          cleanText(hit.Snippet),
		Link:             strings.TrimSpace(hit.Link),
		Assignee:         cleanText(hit.Assignee),
		Inventor:         cleanText(hit.Inventor),
		PublicationDate:  ParseDate(hit.Date),
		SourceStrategies: []int{strategyID},
	}, true
}

// NormalizeAll converts hits in provider order and returns the records along
// with the number of hits dropped for lacking a patent number.
func NormalizeAll(hits []types.RawHit, strategyID int) ([]types.PatentRecord, int) {
	records := make([]types.PatentRecord, 0, len(hits))
	dropped := 0
	for _, h := range hits {
		rec, ok := Normalize(h, strategyID)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"20060102",
	"2006-01",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006",
}

// ParseDate parses the publication date formats returned by the supported
// providers. It returns nil for empty or unrecognized input.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// cleanText collapses runs of whitespace into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
