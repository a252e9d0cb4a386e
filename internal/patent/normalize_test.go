// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/patent-copilot/pkg/types"
)

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"US123456", "US123456"},
		{"us 123,456", "US123456"},
		{" US-123456 ", "US123456"},
		{"US 10,123,456 B2", "US10123456B2"},
		{"patent/US11234567B2/en", "US11234567B2"},
		{"/patent/US11234567B2/en", "US11234567B2"},
		{"https://patents.google.com/patent/US11234567B2/en", "US11234567B2"},
		{"US 2020/0123456 A1", "US20200123456A1"},
		{"WO 2020/0123456 A1", "WO20200123456A1"},
		{"EP1234567A1", "EP1234567A1"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalID(tt.in))
		})
	}
}

func TestCanonicalID_SlashNumbersStayDistinct(t *testing.T) {
	ids := map[string]bool{}
	for _, raw := range []string{"US 2020/0123456 A1", "WO 2020/0123456 A1", "EP 2020/0123456 A1", "US 2021/0123456 A1"} {
		ids[CanonicalID(raw)] = true
	}
	assert.Len(t, ids, 4)
}

func TestNormalize(t *testing.T) {
	hit := types.RawHit{
		ID:       "us 123,456",
		Title:    "  Smart   water bottle ",
		Snippet:  "A bottle\nthat tracks intake",
		Link:     "https://patents.google.com/patent/US123456 ",
		Assignee: "Hydro Corp",
		Inventor: "A. Inventor",
		Date:     "2021-03-04",
	}

	rec, ok := Normalize(hit, 2)
	require.True(t, ok)
	assert.Equal(t, "US123456", rec.CanonicalID)
	assert.Equal(t, "Smart water bottle", rec.Title)
	assert.Equal(t, "A bottle that tracks intake", rec.Snippet)
	assert.Equal(t, "https://patents.google.com/patent/US123456", rec.Link)
	assert.Equal(t, []int{2}, rec.SourceStrategies)
	require.NotNil(t, rec.PublicationDate)
	assert.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), *rec.PublicationDate)
}

func TestNormalize_MissingID(t *testing.T) {
	_, ok := Normalize(types.RawHit{Title: "no number"}, 1)
	assert.False(t, ok)
}

func TestNormalizeAll(t *testing.T) {
	hits := []types.RawHit{
		{ID: "US1"},
		{ID: ""},
		{ID: "US2"},
	}
	records, dropped := NormalizeAll(hits, 3)
	assert.Equal(t, 1, dropped)
	require.Len(t, records, 2)
	assert.Equal(t, "US1", records[0].CanonicalID)
	assert.Equal(t, "US2", records[1].CanonicalID)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2020-01-15", "2020-01-15"},
		{"2020/01/15", "2020-01-15"},
		{"20200115", "2020-01-15"},
		{"2020-01", "2020-01-01"},
		{"Jan 15, 2020", "2020-01-15"},
		{"2020", "2020-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseDate(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}

	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("Unknown date"))
}
