package export

import (
	"errors"
	"fmt"
	"strings"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ErrUnsupportedFormat is returned for formats without a renderer.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ErrNoColumns is returned when a dataset has no headers.
var ErrNoColumns = errors.New("dataset requires at least one column")

// ParseFormat normalizes a format name; empty input selects CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// Dataset is tabular export content keyed by header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Record returns the row values in header order.
func (d Dataset) Record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}

// Document is rendered export output.
type Document struct {
	Format   Format
	Filename string
	Content  []byte
}

// Exporter renders datasets in any supported format.
type Exporter struct {
	csv *CSVRenderer
	pdf *PDFRenderer
}

// NewExporter builds an exporter with the default renderers.
func NewExporter() *Exporter {
	return &Exporter{csv: NewCSVRenderer(), pdf: NewPDFRenderer()}
}

// Render encodes the dataset. baseName is used for the download filename.
func (e *Exporter) Render(format Format, data Dataset, baseName string) (*Document, error) {
	if len(data.Headers) == 0 {
		return nil, ErrNoColumns
	}
	var (
		content []byte
		err     error
	)
	switch format {
	case FormatCSV:
		content, err = e.csv.Render(data)
	case FormatPDF:
		content, err = e.pdf.Render(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return &Document{Format: format, Filename: filename(baseName, format), Content: content}, nil
}

func filename(base string, format Format) string {
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(base))
	if base == "" {
		base = "export"
	}
	return base + "." + string(format)
}
