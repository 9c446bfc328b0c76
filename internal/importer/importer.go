package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vocabflash/internal/domain"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Column order of an import file: word, definition, optional article
const (
	colWord = iota
	colDefinition
	colArticle
)

// Row is one word read from a spreadsheet
type Row struct {
	Line       int // 1-based line in the source file
	Word       string
	Definition string
	Article    string
}

// Config defines how a file is read
type Config struct {
	SheetName  string // xlsx only, empty means the first sheet
	SkipHeader bool
}

// Result holds the outcome of an import
type Result struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// WordSaver stores imported words
type WordSaver interface {
	SaveWordWithArticle(ctx context.Context, userID int64, word, article, definition string, folderID *int64) (*domain.Word, error)
}

// Importer loads words from spreadsheets into a user's vocabulary
type Importer struct {
	saver  WordSaver
	logger *zap.Logger
}

// New creates a new importer
func New(saver WordSaver, logger *zap.Logger) *Importer {
	return &Importer{saver: saver, logger: logger}
}

// ReadFile reads rows from an .xlsx or .csv file
func ReadFile(path string, cfg Config) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ParseCSV(file, cfg)
	case ".xlsx", ".xlsm":
		return ParseXLSX(file, cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, ext)
	}
}

// ParseCSV reads rows from CSV data
func ParseCSV(r io.Reader, cfg Config) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, record)
	}

	return toRows(records, cfg.SkipHeader), nil
}

// ParseXLSX reads rows from an Excel workbook
func ParseXLSX(r io.Reader, cfg Config) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrInvalidInput)
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	return toRows(records, cfg.SkipHeader), nil
}

// toRows converts raw records, dropping blank lines
func toRows(records [][]string, skipHeader bool) []Row {
	rows := make([]Row, 0, len(records))
	for i, record := range records {
		if i == 0 && skipHeader {
			continue
		}

		row := Row{
			Line:       i + 1,
			Word:       cell(record, colWord),
			Definition: cell(record, colDefinition),
			Article:    cell(record, colArticle),
		}
		if row.Word == "" && row.Definition == "" && row.Article == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Import saves rows for the user, optionally into a folder. Rows that fail
// validation are skipped and reported in the result.
func (im *Importer) Import(ctx context.Context, userID int64, rows []Row, folderID *int64) (*Result, error) {
	result := &Result{Errors: make([]string, 0)}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.TotalProcessed++

		_, err := im.saver.SaveWordWithArticle(ctx, userID, row.Word, row.Article, row.Definition, folderID)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, domain.ErrInvalidInput):
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row.Line, err))
		default:
			// Storage failures abort the whole import
			im.logger.Error("Import aborted", zap.Int("row", row.Line), zap.Error(err))
			return result, fmt.Errorf("row %d: %w", row.Line, err)
		}
	}

	im.logger.Info("Import finished",
		zap.Int64("user_id", userID),
		zap.Int("processed", result.TotalProcessed),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
