package excel

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/vocabulary"
)

func TestColumnToIndex(t *testing.T) {
	for col, want := range map[string]int{"A": 0, "c": 2, "Z": 25, "AA": 26} {
		if got := columnToIndex(col); got != want {
			t.Errorf("columnToIndex(%q) = %d, want %d", col, got, want)
		}
	}
}

func TestReadRowsCSV(t *testing.T) {
	in := "\xef\xbb\xbf生字,拼音,意思\n山,shān,mountain\n\n水\n, ,\n"
	rows, err := ReadRows(strings.NewReader(in), FormatCSV, DefaultImportConfig())
	if err != nil {
		t.Fatal(err)
	}
	want := []vocabulary.ImportRow{
		{Text: "山", Phonetic: "shān", Meaning: "mountain"},
		{Text: "水"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v", rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestReadFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	for i, r := range [][]string{{"word", "phonetic", "meaning"}, {"apple", "/ˈæp.əl/", "苹果"}, {"cat", "", ""}} {
		for j, v := range r {
			name, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue("Sheet1", name, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "words.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	rows, err := ReadFile(path, DefaultImportConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Meaning != "苹果" || rows[1].Text != "cat" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestReadRowsRejectsGarbage(t *testing.T) {
	_, err := ReadRows(strings.NewReader("not a zip"), FormatXLSX, DefaultImportConfig())
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("got %v", err)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"), DefaultImportConfig()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: got %v", err)
	}
}

func TestFormatFromName(t *testing.T) {
	if FormatFromName("a.CSV") != FormatCSV || FormatFromName("a.xlsx") != FormatXLSX || FormatFromName("a") != FormatXLSX {
		t.Fatal("unexpected format detection")
	}
}
