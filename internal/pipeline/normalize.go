package pipeline

import (
	"strings"

	"songcharts/internal"
	"songcharts/internal/util"
)

var titleMarkers = []string{" (", "[", " /", " - "}

var artistSeparators = []string{
	" featuring ", " feat. ", " feat ",
	" with ",
	" and ",
	" & ",
	" vs. ", " vs ",
	" presents ",
	" / ",
	" x ",
	" duet with ",
}

// NormalizeTitle cuts a track title at the earliest qualifier marker and
// strips one pair of wrapping double quotes. Case is preserved.
func NormalizeTitle(raw string) string {
	s := raw
	if idx := util.EarliestIndex(s, titleMarkers, strings.Index); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// NormalizeArtist keeps the first credited artist. "Various Artists" yields
// an empty string.
func NormalizeArtist(raw string) string {
	s := raw
	if idx := util.EarliestIndex(s, artistSeparators, util.IndexFold); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "various artists") {
		return ""
	}
	return s
}

// NormalizeEntries normalizes each entry and drops those left without a title
// or artist. It returns the survivors and the number dropped.
func NormalizeEntries(entries []internal.RawEntry) ([]internal.NormalizedEntry, int) {
	out := make([]internal.NormalizedEntry, 0, len(entries))
	dropped := 0
	for _, e := range entries {
		title := NormalizeTitle(e.RawTitle)
		artist := NormalizeArtist(e.RawArtist)
		if title == "" || artist == "" {
			dropped++
			continue
		}
		out = append(out, internal.NormalizedEntry{
			Year:      e.Year,
			Rank:      e.Rank,
			Title:     title,
			Artist:    artist,
			RawTitle:  e.RawTitle,
			RawArtist: e.RawArtist,
		})
	}
	return out, dropped
}
