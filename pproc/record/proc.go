// Package record processes a stream of records in parallel. Records are
// delimited by a bufio.SplitFunc, newline delimited JSON by default.
package record

import (
	"bufio"
	"context"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxBufferSize = 1 << 20 // initial scan buffer
	defaultMaxTokenSize  = 1 << 26 // 64MB, hard limit for a single record
)

// ProcessFunc transforms one record. A nil result writes nothing.
type ProcessFunc func([]byte) ([]byte, error)

// ErrorFunc decides about a failed record. Returning nil skips the record,
// returning an error stops processing.
type ErrorFunc func(data []byte, err error) error

// ProcessorOption allows configuration of the Processor
type ProcessorOption func(*Processor)

// WithWorkers sets the number of worker goroutines
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.numWorkers = n
		}
	}
}

// WithMaxTokenSize sets the maximum record size.
func WithMaxTokenSize(size int) ProcessorOption {
	return func(p *Processor) {
		if size > 0 {
			p.maxTokenSize = size
		}
	}
}

// WithSplitFunc sets the record delimiter, e.g. ElementSplitter.
func WithSplitFunc(f bufio.SplitFunc) ProcessorOption {
	return func(p *Processor) {
		p.splitFunc = f
	}
}

// WithErrorHandler sets the function called for records that fail. Without
// a handler the first failure stops processing.
func WithErrorHandler(f ErrorFunc) ProcessorOption {
	return func(p *Processor) {
		p.errorFunc = f
	}
}

// Processor runs a ProcessFunc over records in parallel. Output order is
// not the input order.
type Processor struct {
	splitFunc     bufio.SplitFunc
	processFunc   ProcessFunc
	errorFunc     ErrorFunc
	numWorkers    int
	maxBufferSize int
	maxTokenSize  int
}

// NewProcessor creates a new Processor that by default splits on lines.
func NewProcessor(processFunc ProcessFunc, opts ...ProcessorOption) *Processor {
	p := &Processor{
		splitFunc:     bufio.ScanLines,
		processFunc:   processFunc,
		numWorkers:    runtime.NumCPU(),
		maxBufferSize: defaultMaxBufferSize,
		maxTokenSize:  defaultMaxTokenSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxBufferSize > p.maxTokenSize {
		p.maxBufferSize = p.maxTokenSize
	}
	return p
}

// Process reads records from r, processes them in parallel and writes
// results to w. Writes are serialized.
func (p *Processor) Process(ctx context.Context, r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()
	scanner := bufio.NewScanner(r)
	scanner.Split(p.splitFunc)
	scanner.Buffer(make([]byte, 0, p.maxBufferSize), p.maxTokenSize)
	var (
		workC   = make(chan []byte, p.numWorkers*2)
		writeMu sync.Mutex
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(workC)
		for scanner.Scan() {
			token := scanner.Bytes()
			if len(token) == 0 {
				continue
			}
			data := make([]byte, len(token))
			copy(data, token)
			select {
			case workC <- data:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return scanner.Err()
	})
	for i := 0; i < p.numWorkers; i++ {
		g.Go(func() error {
			for data := range workC {
				if err := ctx.Err(); err != nil {
					return err
				}
				result, err := p.processFunc(data)
				if err != nil {
					if p.errorFunc == nil {
						return err
					}
					if err := p.errorFunc(data, err); err != nil {
						return err
					}
					continue
				}
				if len(result) == 0 {
					continue
				}
				writeMu.Lock()
				_, err = bw.Write(result)
				writeMu.Unlock()
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return bw.Flush()
}
