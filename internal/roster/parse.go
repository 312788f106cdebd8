package roster

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/domain/models"
)

// Column names used by the roster spreadsheet.
const (
	ColumnRUT    = "rut"
	ColumnName   = "nombre"
	ColumnCourse = "curso"
	ColumnPhoto  = "foto"
)

// Record is one spreadsheet row keyed by header name.
type Record map[string]string

type Sheet struct {
	Headers []string
	Records []Record
}

func (s *Sheet) HasColumn(name string) bool {
	for _, h := range s.Headers {
		if h == name {
			return true
		}
	}
	return false
}

const maxLineSize = 1 << 20

// Parse reads a published sheet CSV export. Each line is one row, so a stray
// quote only affects its own row. Blank lines are skipped, cells are trimmed
// and stripped of quote characters, short rows yield empty cells.
func Parse(r io.Reader) (*Sheet, error) {
	const op = "roster.Parse"

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		headers []string
		records []Record
		first   = true
	)

	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}

		row, err := splitRow(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if isBlank(row) {
			continue
		}

		if headers == nil {
			headers = make([]string, len(row))
			for i, h := range row {
				headers[i] = clean(h)
			}
			continue
		}

		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = clean(row[i])
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if headers == nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrRosterEmpty)
	}

	return &Sheet{Headers: headers, Records: records}, nil
}

// splitRow splits a single line into cells, honoring quoted commas.
func splitRow(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	row, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return row, err
}

// Students keeps the rows that carry a RUT.
func (s *Sheet) Students() []models.Student {
	students := make([]models.Student, 0, len(s.Records))
	for _, rec := range s.Records {
		if rec[ColumnRUT] == "" {
			continue
		}
		students = append(students, models.Student{
			RUT:    rec[ColumnRUT],
			Name:   rec[ColumnName],
			Course: rec[ColumnCourse],
			Photo:  rec[ColumnPhoto],
		})
	}
	return students
}

// ParseStudents parses a roster export and requires a rut column.
func ParseStudents(r io.Reader) ([]models.Student, error) {
	const op = "roster.ParseStudents"

	sheet, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if !sheet.HasColumn(ColumnRUT) {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrRosterMissingRUT)
	}
	return sheet.Students(), nil
}

func clean(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, "")
}

func isBlank(row []string) bool {
	return len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "")
}
