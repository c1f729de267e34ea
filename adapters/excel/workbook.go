// Package excel writes the two-sheet data workbook and reads datasets and
// workbooks back from xlsx or csv.
package excel

import (
	"bytes"
	"math"
	"strconv"

	"mincerdash/domain/artifacts"
	"mincerdash/domain/core"
	domainstats "mincerdash/domain/stats"
	"mincerdash/domain/wage"
	"mincerdash/internal"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook
const (
	SheetCoreData    = "Core Data"
	SheetDescriptive = "Descriptive Statistics"
)

// CoreDataHeaders are the renamed columns of the filtered rows
var CoreDataHeaders = []string{"Gender", "Education (years)", "Experience (years)", "Hourly Wage", "Log Wage"}

// ComposeWorkbook writes the filtered rows and the overall describe table.
// Every excelize failure is reported as *artifacts.ExportEncodingError.
func ComposeWorkbook(view *wage.FilteredView, summary domainstats.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCoreData); err != nil {
		return nil, encodingFailed(err)
	}
	if err := writeCoreData(f, view); err != nil {
		return nil, encodingFailed(err)
	}
	if _, err := f.NewSheet(SheetDescriptive); err != nil {
		return nil, encodingFailed(err)
	}
	if err := writeDescriptive(f, summary); err != nil {
		return nil, encodingFailed(err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, encodingFailed(err)
	}
	internal.DefaultLogger.With("excel").Debug("workbook composed: %d rows, %d bytes", view.Len(), buf.Len())
	return buf.Bytes(), nil
}

func writeCoreData(f *excelize.File, view *wage.FilteredView) error {
	header := toRow(CoreDataHeaders)
	if err := f.SetSheetRow(SheetCoreData, "A1", &header); err != nil {
		return err
	}
	for i := 0; i < view.Len(); i++ {
		o := view.At(i)
		row := []interface{}{
			o.Gender.Label(),
			cellValue(o.Education),
			cellValue(o.Experience),
			cellValue(o.Wage),
			cellValue(o.LogWage),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetCoreData, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeDescriptive(f *excelize.File, summary domainstats.Summary) error {
	vars, rows := summary.DescribeTable()
	header := []interface{}{""}
	for _, v := range vars {
		header = append(header, string(v))
	}
	if err := f.SetSheetRow(SheetDescriptive, "A1", &header); err != nil {
		return err
	}

	for r, dr := range rows {
		row := []interface{}{dr.Label}
		for _, v := range dr.Values {
			row = append(row, cellValue(v))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetDescriptive, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// cellValue rounds to two decimals; NaN becomes the text "NaN".
func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return math.Round(v*100) / 100
}

func toRow(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func encodingFailed(err error) error {
	return artifacts.EncodingFailed(core.ArtifactWorkbook, err)
}
