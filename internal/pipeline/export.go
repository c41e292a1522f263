package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"songcharts/internal"
)

var exportHeaders = []string{
	"Year", "Rank", "Track_Title", "Artist_Name", "Raw_Track_Title", "Raw_Artist_Name",
}

// OutputPath is the file a year's batch is written to inside dir.
func OutputPath(dir string, year int, format internal.OutputFormat) string {
	return filepath.Join(dir, fmt.Sprintf("billboard_hot100_%d.%s", year, format))
}

func WriteEntries(entries []internal.NormalizedEntry, outputPath string, format internal.OutputFormat) error {
	switch format {
	case internal.FormatCSV:
		return ExportEntriesToCSV(entries, outputPath)
	case internal.FormatXLSX:
		return ExportEntriesToXLSX(entries, outputPath)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func ExportEntriesToCSV(entries []internal.NormalizedEntry, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	w.UseCRLF = true
	if err := w.Write(exportHeaders); err != nil {
		_ = f.Close()
		return err
	}
	for _, e := range entries {
		if err := w.Write(entryRecord(e)); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func ExportEntriesToXLSX(entries []internal.NormalizedEntry, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, e := range entries {
		r := i + 2
		for col, value := range entryRecord(e) {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func entryRecord(e internal.NormalizedEntry) []string {
	return []string{
		strconv.Itoa(e.Year),
		e.Rank,
		e.Title,
		e.Artist,
		e.RawTitle,
		e.RawArtist,
	}
}
