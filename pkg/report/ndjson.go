package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Writer streams rows as newline-delimited JSON, one object per line.
// Each row is written with a single Write call as soon as it is passed in.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	count int
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write emits one row.
func (w *Writer) Write(r Row) error {
	line, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode row %s: %w", r.Name, err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(line); err != nil {
		return fmt.Errorf("write row %s: %w", r.Name, err)
	}
	w.count++
	return nil
}

// Count returns the number of rows written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}
