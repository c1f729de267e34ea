package generator

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"mincerdash/domain/wage"

	"github.com/xuri/excelize/v2"
)

// RawHeaders are the column names of a full dataset dump
var RawHeaders = []string{"id", "gender", "education", "experience", "experience_sq", "log_wage", "wage"}

func rawRow(o wage.Observation) []string {
	return []string{
		strconv.Itoa(o.ID),
		o.Gender.String(),
		fToStr(o.Education, 4),
		fToStr(o.Experience, 4),
		fToStr(o.ExperienceSq, 4),
		fToStr(o.LogWage, 4),
		fToStr(o.Wage, 4),
	}
}

// WriteCSV dumps every row of rows to w
func WriteCSV(w io.Writer, rows wage.Rows) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RawHeaders); err != nil {
		return err
	}
	for i := 0; i < rows.Len(); i++ {
		if err := cw.Write(rawRow(rows.At(i))); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX dumps every row of rows to a single-sheet workbook
func WriteXLSX(w io.Writer, rows wage.Rows) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	for i, h := range RawHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r := 0; r < rows.Len(); r++ {
		o := rows.At(r)
		values := []interface{}{o.ID, o.Gender.String(), o.Education, o.Experience, o.ExperienceSq, o.LogWage, o.Wage}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func fToStr(x float64, decimals int) string {
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', decimals, 64)
}
