package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/vocabulary"
)

// Format of an uploaded word list
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// maxRows bounds a single upload.
const maxRows = 5000

// ImportConfig defines the column layout of a word list
type ImportConfig struct {
	TextColumn     string // Column with the character or word
	PhoneticColumn string // Column with pinyin or IPA, optional
	MeaningColumn  string // Column with the gloss, optional
	SheetName      string // Sheet to read; empty means the first one
}

// DefaultImportConfig returns the default layout: A text, B phonetic, C meaning
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TextColumn:     "A",
		PhoneticColumn: "B",
		MeaningColumn:  "C",
	}
}

// headerNames are first-column values that mark a header row.
var headerNames = map[string]bool{
	"text": true, "word": true, "words": true, "hanzi": true,
	"生字": true, "汉字": true, "单词": true, "字": true,
}

// FormatFromName picks the format from a file name, defaulting to xlsx
func FormatFromName(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}

// ReadFile reads a word list from disk
func ReadFile(path string, config ImportConfig) ([]vocabulary.ImportRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return ReadRows(file, FormatFromName(path), config)
}

// ReadRows parses an Excel or CSV word list
func ReadRows(r io.Reader, format Format, config ImportConfig) ([]vocabulary.ImportRow, error) {
	var (
		raw [][]string
		err error
	)
	switch format {
	case FormatCSV:
		raw, err = readCSV(r)
	case FormatXLSX:
		raw, err = readExcel(r, config.SheetName)
	default:
		return nil, apperr.Validation("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	rows := make([]vocabulary.ImportRow, 0, len(raw))
	for i, cells := range raw {
		row := vocabulary.ImportRow{
			Text:     cell(cells, config.TextColumn),
			Phonetic: cell(cells, config.PhoneticColumn),
			Meaning:  cell(cells, config.MeaningColumn),
		}
		if i == 0 && headerNames[strings.ToLower(row.Text)] {
			continue
		}
		if row.Text == "" && row.Phonetic == "" && row.Meaning == "" {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) > maxRows {
		return nil, apperr.Validation("too many rows: %d (max %d)", len(rows), maxRows)
	}
	return rows, nil
}

func readExcel(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Validation("cannot read Excel file: %v", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperr.Validation("cannot read sheet %q: %v", sheet, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	// Excel on Windows saves UTF-8 CSV with a BOM
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Validation("error reading CSV: %v", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
