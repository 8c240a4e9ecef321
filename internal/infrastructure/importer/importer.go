// Package importer читает записи массового импорта продуктов из CSV и XLSX.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// columns сопоставляет нормализованные заголовки с полями записи.
var columns = map[string]func(*usecase.ImportRecord, string){
	"name":           func(r *usecase.ImportRecord, v string) { r.Name = v },
	"description":    func(r *usecase.ImportRecord, v string) { r.Description = v },
	"price":          func(r *usecase.ImportRecord, v string) { r.Price = v },
	"rating":         func(r *usecase.ImportRecord, v string) { r.Rating = v },
	"category":       func(r *usecase.ImportRecord, v string) { r.Category = v },
	"tier":           func(r *usecase.ImportRecord, v string) { r.Tier = v },
	"image":          func(r *usecase.ImportRecord, v string) { r.Image = v },
	"additionalinfo": func(r *usecase.ImportRecord, v string) { r.AdditionalInfo = v },
	"review":         func(r *usecase.ImportRecord, v string) { r.Review = v },
}

var required = []string{"name", "price", "category"}

// DetectFormat определяет формат по расширению файла, затем по Content-Type.
func DetectFormat(filename, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return CSV, nil
	case ".xlsx":
		return XLSX, nil
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "text/csv", "application/csv":
		return CSV, nil
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return XLSX, nil
	}

	return "", fmt.Errorf("%w: %q", e.ErrUnsupportedFileType, filename)
}

// Parse читает таблицу с заголовком в первой строке. Столбцы сопоставляются по имени без учёта регистра.
func Parse(r io.Reader, format Format) ([]usecase.ImportRecord, error) {
	var (
		rows [][]string
		err  error
	)

	switch format {
	case CSV:
		rows, err = readCSV(r)
	case XLSX:
		rows, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", e.ErrUnsupportedFileType, format)
	}
	if err != nil {
		return nil, err
	}

	return toRecords(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, e.Wrap("importer.readCSV", err)
	}
	// Excel сохраняет CSV с BOM
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, e.Invalid("file", "malformed CSV at line %d: %v", parseErr.Line, parseErr.Err)
		}
		return nil, e.InvalidWrap("file", err)
	}

	return rows, nil
}

// readXLSX читает первый лист книги.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, e.Invalid("file", "not a valid XLSX workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, e.Invalid("file", "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, e.InvalidWrap("file", err)
	}

	return rows, nil
}

func toRecords(rows [][]string) ([]usecase.ImportRecord, error) {
	if len(rows) == 0 {
		return nil, e.Invalid("file", "empty file")
	}

	setters := make([]func(*usecase.ImportRecord, string), len(rows[0]))
	seen := make(map[string]bool, len(rows[0]))
	for i, h := range rows[0] {
		key := normalizeHeader(h)
		if set, ok := columns[key]; ok {
			setters[i] = set
			seen[key] = true
		}
	}

	for _, col := range required {
		if !seen[col] {
			return nil, e.Invalid("file", "missing required column %q", col)
		}
	}

	records := make([]usecase.ImportRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		var rec usecase.ImportRecord
		for i, cell := range row {
			if i < len(setters) && setters[i] != nil {
				setters[i](&rec, strings.TrimSpace(cell))
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// normalizeHeader приводит "Additional Info", "additional_info" и "additionalInfo" к одному ключу.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
