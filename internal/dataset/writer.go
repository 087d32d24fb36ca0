package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/xuri/excelize/v2"
)

// xlsxMaxRows is the sheet row limit, header included.
const xlsxMaxRows = 1048576

// Table is a header plus an indexed row source.
type Table struct {
	Name   string
	Header []string
	Len    int
	Row    func(i int) []string
}

// TableWriter persists one table to path.
type TableWriter interface {
	WriteTable(path string, t Table) error
}

func writerFor(f Format) (TableWriter, error) {
	switch f {
	case FormatCSV:
		return csvWriter{}, nil
	case FormatCSVGzip:
		return gzipCSVWriter{}, nil
	case FormatXLSX:
		return xlsxWriter{}, nil
	default:
		return nil, fmt.Errorf("no writer for format %q", f)
	}
}

type csvWriter struct{}

func (csvWriter) WriteTable(path string, t Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeCSV(file, t); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

type gzipCSVWriter struct{}

func (gzipCSVWriter) WriteTable(path string, t Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(file)
	if err := writeCSV(zw, t); err != nil {
		zw.Close()
		file.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return file.Close()
}

func writeCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Header); err != nil {
		return err
	}
	for i := 0; i < t.Len; i++ {
		if err := writer.Write(t.Row(i)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

type xlsxWriter struct{}

// WriteTable stores the table as the only sheet of a workbook, named after the table.
func (xlsxWriter) WriteTable(path string, t Table) error {
	if t.Len+1 > xlsxMaxRows {
		return fmt.Errorf("table %s has %d rows, xlsx holds at most %d", t.Name, t.Len, xlsxMaxRows-1)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), t.Name); err != nil {
		return fmt.Errorf("failed to name sheet %s: %w", t.Name, err)
	}

	sw, err := f.NewStreamWriter(t.Name)
	if err != nil {
		return fmt.Errorf("failed to open stream writer for %s: %w", t.Name, err)
	}

	if err := sw.SetRow("A1", toCells(t.Header)); err != nil {
		return err
	}
	for i := 0; i < t.Len; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(t.Row(i))); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i, t.Name, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func toCells(record []string) []interface{} {
	cells := make([]interface{}, len(record))
	for i, v := range record {
		cells[i] = v
	}
	return cells
}
