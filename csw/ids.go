package csw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// IDLog records the identifiers of published records, one per line, so they
// can be deleted later. Safe for concurrent use.
type IDLog struct {
	mu sync.Mutex
	w  io.Writer
}

// NewIDLog appends identifiers to w.
func NewIDLog(w io.Writer) *IDLog {
	return &IDLog{w: w}
}

// OpenIDLog opens or creates an identifier log file for appending.
func OpenIDLog(filename string) (*IDLog, *os.File, error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return NewIDLog(f), f, nil
}

// Append writes a single identifier.
func (l *IDLog) Append(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := fmt.Fprintln(l.w, id)
	return err
}

// ReadIDs returns the non-blank lines of r.
func ReadIDs(r io.Reader) ([]string, error) {
	var (
		ids []string
		br  = bufio.NewScanner(r)
	)
	for br.Scan() {
		if id := strings.TrimSpace(br.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, br.Err()
}
