package file

import (
	"bufio"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/chalkline/resguard"
	"github.com/chalkline/resguard/errors"
	"github.com/chalkline/resguard/internal/fatal"
)

// File is a scope-bound guard over a buffered output stream. Writes
// accumulate in an internal buffer with no guaranteed flush to storage, so
// an environmental failure (the canonical case: a network-backed filesystem
// disconnecting mid-session) may surface only at close time.
//
// Close is the explicit escape hatch: it surfaces that failure to the owner
// and always invalidates the handle first, because even a failed close
// releases the underlying descriptor. Release is the automatic fallback for
// owners who never call Close; a failure there terminates the process.
type File struct {
	w    *bufio.Writer
	sink io.WriteCloser
	name string
}

var _ resguard.ExplicitCloser = (*File)(nil)

// Create opens a new output stream at path for writing, truncating or
// creating the file as needed, and returns the guard owning it.
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.CreateFailed(errors.ResourceFile, path, err)
	}
	resguard.Logger().Debug("file created", zap.String("path", path))
	return NewWriter(f, path), nil
}

// NewWriter wraps an already-open sink in a guard. name is used in
// diagnostics. Demos and tests use it to inject sinks whose flush fails.
func NewWriter(sink io.WriteCloser, name string) *File {
	return &File{
		w:    bufio.NewWriter(sink),
		sink: sink,
		name: name,
	}
}

// Write appends data to the stream's buffer. It fails if the handle has
// been closed or moved from, if the underlying write reports an OS error,
// or if fewer bytes are accepted than requested.
func (f *File) Write(data []byte) error {
	if f.sink == nil {
		return errors.Invalid(errors.ResourceFile, errors.OpWrite, f.name)
	}
	n, err := f.w.Write(data)
	if err != nil {
		return errors.WriteFailed(f.name, err)
	}
	if n < len(data) {
		return errors.ShortWrite(f.name, n, len(data))
	}
	return nil
}

// Close flushes buffered data and releases the stream. It is idempotent:
// after the first call, success or failure, the handle is invalid and
// further calls return nil. The handle is invalidated before any error is
// surfaced; a failed close must never tempt the owner into retrying against
// an already-released descriptor.
func (f *File) Close() error {
	if f.sink == nil {
		return nil
	}
	w, sink := f.w, f.sink
	f.w, f.sink = nil, nil

	err := w.Flush()
	// A failed flush does not excuse leaking the descriptor.
	err = multierr.Append(err, sink.Close())
	if err != nil {
		return errors.CloseFailed(f.name, err)
	}
	resguard.Logger().Debug("file closed", zap.String("path", f.name))
	return nil
}

// Move transfers ownership of the stream to the returned guard and leaves
// f inert: its Close and Release become no-ops and Write is rejected.
func (f *File) Move() *File {
	next := &File{w: f.w, sink: f.sink, name: f.name}
	f.w, f.sink = nil, nil
	return next
}

// Release is the scope-exit cleanup, meant to be deferred. If the owner
// already closed the guard (successfully or not) it is a no-op; otherwise
// it runs the close logic, and a failure is escalated to process
// termination since there is no one left to report it to.
func (f *File) Release() {
	if f.sink == nil {
		return
	}
	if err := f.Close(); err != nil {
		fatal.Cleanup(err)
	}
}
