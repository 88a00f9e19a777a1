package report

import (
	"io"

	"github.com/nao1215/markdown"

	"github.com/mobiusgate/netreport/internal/model"
)

// MarkdownWriter serializes tables as GitHub-flavored Markdown.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Built-in table support with column alignment
// 3. Consistent escaping of table cell content
type MarkdownWriter struct {
	baseWriter

	// title, when non-empty, is emitted as an H2 heading above the table.
	title string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithTitle emits the given heading above the table.
func WithTitle(title string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.title = title
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write serializes the table as a markdown table.
// The same shape invariant as CSV output applies: every row must have
// exactly as many cells as the header.
func (w *MarkdownWriter) Write(table *model.Table) (int, error) {
	want := len(table.Header)
	for i, row := range table.Rows {
		if len(row) != want {
			return 0, &TableShapeError{Row: i, Got: len(row), Want: want}
		}
	}

	md := markdown.NewMarkdown(w.output)
	if w.title != "" {
		md.H2(w.title)
		md.PlainText("")
	}
	md.Table(markdown.TableSet{
		Header: table.Header,
		Rows:   table.Rows,
	})

	return len(md.String()), md.Build()
}
