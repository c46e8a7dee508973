package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ad/go-telegram-wordwizard/internal/models"
	"github.com/xuri/excelize/v2"
)

var ErrEmptyImport = errors.New("no valid words in import file")

// ImportConfig describes where word fields live in a spreadsheet or CSV file.
type ImportConfig struct {
	FilePath         string
	SheetName        string // first sheet when empty
	IDColumn         string
	WordColumn       string
	CategoryColumn   string
	DifficultyColumn string
	HintColumn       string
	StartRow         int // 1-based
}

func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath:         path,
		IDColumn:         "A",
		WordColumn:       "B",
		CategoryColumn:   "C",
		DifficultyColumn: "D",
		HintColumn:       "E",
		StartRow:         2,
	}
}

type ImportResult struct {
	TotalProcessed int
	Loaded         int
	Skipped        int
	Errors         []string
}

// LoadFile reads words from an .xlsx or .csv file. Invalid rows are skipped and
// reported in the result; the returned catalog holds every valid row.
func LoadFile(config ImportConfig) (*Catalog, *ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(config.FilePath)) {
	case ".csv":
		rows, err = readCSV(config.FilePath)
	case ".xlsx":
		rows, err = readExcel(config.FilePath, config.SheetName)
	default:
		return nil, nil, fmt.Errorf("unsupported word file %q", config.FilePath)
	}
	if err != nil {
		return nil, nil, err
	}

	words, result := parseRows(rows, config)
	if len(words) == 0 {
		return nil, result, ErrEmptyImport
	}

	c, err := New(words)
	if err != nil {
		return nil, result, err
	}
	return c, result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRows(rows [][]string, config ImportConfig) ([]models.Word, *ImportResult) {
	result := &ImportResult{Errors: make([]string, 0)}
	seen := make(map[string]bool)
	var words []models.Word

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow || isBlankRow(row) {
			continue
		}
		result.TotalProcessed++

		word, err := parseRow(row, config)
		if err == nil && seen[word.ID] {
			err = fmt.Errorf("%w: %s", ErrDuplicateWord, word.ID)
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		seen[word.ID] = true
		words = append(words, word)
		result.Loaded++
	}
	return words, result
}

func parseRow(row []string, config ImportConfig) (models.Word, error) {
	difficultyStr := cell(row, config.DifficultyColumn)
	difficulty, ok := models.ParseDifficulty(strings.ToLower(difficultyStr))
	if !ok {
		return models.Word{}, fmt.Errorf("%w: difficulty %q", ErrInvalidWord, difficultyStr)
	}

	word := models.Word{
		ID:         cell(row, config.IDColumn),
		Text:       strings.ToLower(cell(row, config.WordColumn)),
		Category:   models.Category(strings.ToLower(cell(row, config.CategoryColumn))),
		Difficulty: difficulty,
		Hint:       cell(row, config.HintColumn),
	}
	if err := ValidateWord(word); err != nil {
		return models.Word{}, err
	}
	return word, nil
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	idx := columnToIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// columnToIndex converts a spreadsheet column ("A", "AB") to a 0-based index.
func columnToIndex(column string) int {
	idx := 0
	for _, r := range strings.ToUpper(column) {
		if r < 'A' || r > 'Z' {
			return -1
		}
		idx = idx*26 + int(r-'A') + 1
	}
	return idx - 1
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
