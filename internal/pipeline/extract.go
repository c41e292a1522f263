package pipeline

import (
	"strconv"

	"songcharts/internal"
	"songcharts/internal/util"
)

// ExtractEntries turns the rows of one year's chart table into raw entries.
// Three cells read as rank, title, artist. Two cells read as title, artist
// and get a rank from the count of entries emitted so far. Any other shape is
// counted as a shape error and skipped.
func ExtractEntries(year int, rows []internal.Row, policy internal.HeaderRowPolicy) ([]internal.RawEntry, internal.ExtractStats) {
	stats := internal.ExtractStats{}
	if len(rows) == 0 {
		return []internal.RawEntry{}, stats
	}

	if skipFirstRow(rows[0], policy) {
		rows = rows[1:]
		stats.HeaderSkipped = true
	}

	out := make([]internal.RawEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		stats.Candidates++

		entry, ok := rowToEntry(year, row, stats.Valid)
		if !ok {
			if len(row) == 2 || len(row) == 3 {
				stats.EmptyRejects++
			} else {
				stats.ShapeErrors++
			}
			continue
		}
		out = append(out, entry)
		stats.Valid++
	}
	return out, stats
}

func rowToEntry(year int, row internal.Row, emitted int) (internal.RawEntry, bool) {
	var rank, title, artist string
	switch len(row) {
	case 3:
		rank = util.NormalizeSpaces(row[0].Text)
		title = util.NormalizeSpaces(row[1].Text)
		artist = util.NormalizeSpaces(row[2].Text)
	case 2:
		rank = strconv.Itoa(emitted + 1)
		title = util.NormalizeSpaces(row[0].Text)
		artist = util.NormalizeSpaces(row[1].Text)
	default:
		return internal.RawEntry{}, false
	}
	if title == "" || artist == "" {
		return internal.RawEntry{}, false
	}
	return internal.RawEntry{Year: year, Rank: rank, RawTitle: title, RawArtist: artist}, true
}

// IsHeaderRow reports whether every cell is header-style or none is data-style.
func IsHeaderRow(row internal.Row) bool {
	allHeader := true
	anyData := false
	for _, cell := range row {
		if cell.Header {
			continue
		}
		allHeader = false
		anyData = true
	}
	return allHeader || !anyData
}

func skipFirstRow(row internal.Row, policy internal.HeaderRowPolicy) bool {
	switch policy {
	case internal.HeaderAlways:
		return true
	case internal.HeaderNever:
		return false
	default:
		return IsHeaderRow(row)
	}
}
