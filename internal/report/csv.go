package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mobiusgate/netreport/internal/model"
)

// TableShapeError is returned when a row's length does not match the
// header length. This is an internal invariant violation: the flattener
// always produces uniform rows, so hitting this error indicates a defect,
// not bad service input.
type TableShapeError struct {
	// Row is the zero-based index of the offending row.
	Row int

	// Got is the cell count of the offending row.
	Got int

	// Want is the header length every row must match.
	Want int
}

// Error implements the error interface.
func (e *TableShapeError) Error() string {
	return fmt.Sprintf("table shape violation: row %d has %d cells, header has %d", e.Row, e.Got, e.Want)
}

// CSVWriter serializes tables as CSV.
//
// Quoting follows the standard convention: a cell is quoted if and only
// if it contains the field delimiter, a newline, or a quote character,
// and embedded quotes are escaped by doubling. Every record, including
// the last, is terminated with "\n".
//
// Design decision: We build on encoding/csv rather than hand-rolling the
// quoting rules. The standard library implements exactly the escaping we
// need, and a custom emitter would just be a second, riskier copy of it.
type CSVWriter struct {
	baseWriter

	// delimiter is the field separator. Defaults to ','.
	delimiter rune

	// useCRLF terminates records with "\r\n" instead of "\n".
	useCRLF bool
}

// CSVWriterOption configures a CSVWriter.
type CSVWriterOption func(*CSVWriter)

// WithDelimiter sets the field delimiter. The zero rune is ignored.
func WithDelimiter(d rune) CSVWriterOption {
	return func(w *CSVWriter) {
		if d != 0 {
			w.delimiter = d
		}
	}
}

// WithCRLF switches the record terminator to "\r\n" for consumers that
// require DOS-style line endings.
func WithCRLF() CSVWriterOption {
	return func(w *CSVWriter) {
		w.useCRLF = true
	}
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer, opts ...CSVWriterOption) *CSVWriter {
	w := &CSVWriter{
		baseWriter: newBaseWriter(output),
		delimiter:  ',',
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write serializes the table as CSV: the header line first, then one line
// per row in table order.
//
// The table shape is validated before any byte is written, so a malformed
// table never produces partial output.
func (w *CSVWriter) Write(table *model.Table) (int, error) {
	want := len(table.Header)
	for i, row := range table.Rows {
		if len(row) != want {
			return 0, &TableShapeError{Row: i, Got: len(row), Want: want}
		}
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Comma = w.delimiter
	cw.UseCRLF = w.useCRLF

	if err := cw.Write(table.Header); err != nil {
		return 0, err
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
