package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mincerdash/domain/wage"
	"mincerdash/internal"

	"github.com/xuri/excelize/v2"
)

// Table is a header row plus string cells keyed by header
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// DataReader reads a dataset dump from an xlsx (first sheet) or csv file
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader picks the format from the file extension
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: internal.DefaultLogger.With("excel")}
}

// ReadTable reads the raw cells
func (r *DataReader) ReadTable() (*Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readXLSX()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have a header row and at least one data row", strings.ToUpper(r.fileType))
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", r.filePath, float64(time.Since(start).Nanoseconds())/1e6, len(rows))
	return processRows(rows), nil
}

func (r *DataReader) readXLSX() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	return rows, nil
}

func (r *DataReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func processRows(rows [][]string) *Table {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	t := &Table{Headers: headers}
	for _, row := range rows[1:] {
		data := make(map[string]string, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				data[headers[j]] = strings.TrimSpace(cell)
			}
		}
		t.Rows = append(t.Rows, data)
	}
	return t
}

// ReadDataset loads a dataset dump written by the generate command. Gender,
// education, experience and log_wage are required; experience_sq and wage are
// recomputed. Rows get their position as ID when the id column is missing.
func (r *DataReader) ReadDataset(seed int64) (*wage.Dataset, error) {
	t, err := r.ReadTable()
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"gender", "education", "experience", "log_wage"} {
		if !t.hasColumn(col) {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	rows := make([]wage.Observation, 0, len(t.Rows))
	for i, raw := range t.Rows {
		o, err := parseObservation(i, raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, o)
	}
	return wage.NewDataset(seed, rows), nil
}

func (t *Table) hasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

func parseObservation(i int, raw map[string]string) (wage.Observation, error) {
	g, err := wage.ParseGender(raw["gender"])
	if err != nil {
		return wage.Observation{}, err
	}
	edu, err := strconv.ParseFloat(raw["education"], 64)
	if err != nil {
		return wage.Observation{}, fmt.Errorf("education: %w", err)
	}
	exp, err := strconv.ParseFloat(raw["experience"], 64)
	if err != nil {
		return wage.Observation{}, fmt.Errorf("experience: %w", err)
	}
	lw, err := strconv.ParseFloat(raw["log_wage"], 64)
	if err != nil {
		return wage.Observation{}, fmt.Errorf("log_wage: %w", err)
	}

	id := i
	if s, ok := raw["id"]; ok && s != "" {
		if id, err = strconv.Atoi(s); err != nil {
			return wage.Observation{}, fmt.Errorf("id: %w", err)
		}
	}
	return wage.Observation{
		ID:           id,
		Gender:       g,
		Education:    edu,
		Experience:   exp,
		ExperienceSq: exp * exp,
		LogWage:      lw,
		Wage:         math.Exp(lw),
	}, nil
}

// ReadWorkbook returns every sheet of an in-memory workbook as string rows
func ReadWorkbook(data []byte) (map[string][][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	out := make(map[string][][]string)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
		}
		out[sheet] = rows
	}
	return out, nil
}
