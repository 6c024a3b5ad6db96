// Package export writes the movie detail table to CSV, XLSX or JSON files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/boxoffice-cli/internal/dashboard"
	"github.com/KaramelBytes/boxoffice-cli/internal/utils"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Movies"

// Supported lists the file extensions File understands.
var Supported = []string{".csv", ".xlsx", ".json"}

// File writes rows to path, choosing the encoding from its extension.
// The file is replaced atomically.
func File(path string, rows []dashboard.DetailRow) error {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = WriteCSV(&buf, rows)
	case ".xlsx":
		err = WriteXLSX(&buf, rows)
	case ".json":
		var b []byte
		b, err = utils.PrettyJSON(rows)
		buf.Write(b)
	default:
		return fmt.Errorf("unsupported export format %q (want %s)", filepath.Ext(path), strings.Join(Supported, ", "))
	}
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// WriteCSV writes a header line followed by one line per row. Null cells
// are left empty.
func WriteCSV(w io.Writer, rows []dashboard.DetailRow) error {
	if len(rows) == 0 {
		cw := csv.NewWriter(w)
		if err := cw.Write(dashboard.DetailColumns); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}
	records := make([][]string, 0, len(rows)+1)
	records = append(records, dashboard.DetailColumns)
	for _, r := range rows {
		records = append(records, r.Strings())
	}
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.HasHeader(true),
	)
	if df.Err != nil {
		return fmt.Errorf("build table: %w", df.Err)
	}
	return df.WriteCSV(w)
}

// WriteXLSX writes a single-sheet workbook with a bold, filterable header.
// Numeric columns are stored as numbers.
func WriteXLSX(w io.Writer, rows []dashboard.DetailRow) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	header := make([]any, len(dashboard.DetailColumns))
	for i, c := range dashboard.DetailColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := cells(r)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(dashboard.DetailColumns))
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last+"1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", last, 22); err != nil {
		return err
	}
	if err := f.AutoFilter(SheetName, fmt.Sprintf("A1:%s%d", last, len(rows)+1), nil); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

func cells(r dashboard.DetailRow) []any {
	num := func(p *float64) any {
		if p == nil {
			return nil
		}
		return *p
	}
	var year, genre any
	if r.Year != nil {
		year = *r.Year
	}
	if r.Genre != nil {
		genre = *r.Genre
	}
	return []any{r.Name, year, genre, num(r.Budget), num(r.Gross), num(r.Runtime)}
}
