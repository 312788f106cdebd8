package report

import (
	"bytes"
	"strings"

	"meal-checkin/internal/domain/models"
)

const (
	ContentType = "text/csv; charset=utf-8"

	bom    = "\ufeff"
	header = "Fecha,Hora,RUT,Nombre,Curso,Servicio"
)

type File struct {
	Name    string
	Date    string
	Rows    int
	Content []byte
}

func FileName(date string) string {
	return "Registro Junaeb " + date + ".csv"
}

// ArchiveKey is where a day's report is stored in the archive bucket.
func ArchiveKey(date string) string {
	return "reports/" + date + ".csv"
}

// Build renders visits as a spreadsheet-friendly CSV: BOM, fixed header, every
// field quoted, LF separated, no trailing newline.
func Build(date string, visits []models.Visit) File {
	var buf bytes.Buffer
	buf.WriteString(bom)
	buf.WriteString(header)

	for _, v := range visits {
		buf.WriteByte('\n')
		writeRow(&buf, v.Date, v.Clock, v.RUT, v.Name, v.Course, string(v.Meal))
	}

	return File{
		Name:    FileName(date),
		Date:    date,
		Rows:    len(visits),
		Content: buf.Bytes(),
	}
}

func writeRow(buf *bytes.Buffer, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
}
