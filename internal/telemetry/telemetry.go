// Package telemetry writes catalogue events as a JSONL stream. Every draft
// change, addition, and edit becomes one JSON line, which makes a session
// auditable after the fact without persisting the catalogue itself.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mesh-intelligence/plantbook/pkg/types"
)

// Emitter writes events as JSON lines. It is safe for concurrent use.
// A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
	err    error // first write error seen by Observe
}

// NewEmitter creates an Emitter appending to the file at path. The file is
// created if it does not exist.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{enc: json.NewEncoder(f), closer: f}, nil
}

// NewWriterEmitter creates an Emitter writing to w. Close does not close w.
func NewWriterEmitter(w io.Writer) *Emitter {
	return &Emitter{enc: json.NewEncoder(w)}
}

// Emit writes a single event. Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt types.Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Observe has the signature expected by Catalogue.Subscribe. Write errors
// are kept and reported by Err, since subscribers cannot return them.
func (e *Emitter) Observe(evt types.Event) {
	if err := e.Emit(evt); err != nil {
		e.mu.Lock()
		if e.err == nil {
			e.err = err
		}
		e.mu.Unlock()
	}
}

// Err returns the first error recorded by Observe.
func (e *Emitter) Err() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Close closes the underlying file, if the Emitter owns one. Calling Close
// on a nil Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil || e.closer == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.closer.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
