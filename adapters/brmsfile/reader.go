package brmsfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DataReader reads tabular model files, CSV or XLSX
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given file, the type is taken
// from the extension
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadTable returns the file's rows including the header row
func (r *DataReader) ReadTable() ([][]string, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readXLSX()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
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

func (r *DataReader) readXLSX() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Always use Sheet1
	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	// GetRows drops trailing empty cells, pad every row to header width
	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}

// ReadDrawMatrix parses a posterior draw matrix: a header row of
// coefficient keys followed by one row per draw. Every column ends up
// with the same number of draws.
func ReadDrawMatrix(path string) ([]string, map[string][]float64, error) {
	table, err := NewDataReader(path).ReadTable()
	if err != nil {
		return nil, nil, err
	}
	if len(table) < 2 {
		return nil, nil, fmt.Errorf("draw matrix must have a header row and at least one draw")
	}

	header := table[0]
	draws := make(map[string][]float64, len(header))
	for _, key := range header {
		if key == "" {
			return nil, nil, fmt.Errorf("draw matrix has an empty column name")
		}
		if _, ok := draws[key]; ok {
			return nil, nil, fmt.Errorf("draw matrix has duplicate column %q", key)
		}
		draws[key] = make([]float64, 0, len(table)-1)
	}

	for rowIdx, row := range table[1:] {
		if len(row) != len(header) {
			return nil, nil, fmt.Errorf("draw row %d has %d values, expected %d",
				rowIdx+1, len(row), len(header))
		}
		for colIdx, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("draw row %d, column %q: %w", rowIdx+1, header[colIdx], err)
			}
			draws[header[colIdx]] = append(draws[header[colIdx]], v)
		}
	}
	return header, draws, nil
}
