package file

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chalkline/resguard/errors"
	"github.com/chalkline/resguard/internal/fatal"
)

// faultSink is an in-memory sink whose writes can be made to fail, standing
// in for a network-backed file whose descriptor went stale mid-session.
type faultSink struct {
	buf      bytes.Buffer
	writeErr error
	closeErr error
	closed   int
}

func (s *faultSink) Write(p []byte) (int, error) {
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	return s.buf.Write(p)
}

func (s *faultSink) Close() error {
	s.closed++
	return s.closeErr
}

func recordCleanups(t *testing.T) *[]error {
	t.Helper()
	var got []error
	restore := fatal.SetHandler(func(err error) {
		got = append(got, err)
	})
	t.Cleanup(restore)
	return &got
}

func TestFile_WriteCloseHealthy(t *testing.T) {
	fatals := recordCleanups(t)
	path := filepath.Join(t.TempDir(), "out.txt")

	f, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Release()

	if err := f.Write([]byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "abc" {
		t.Fatalf("file contains %q, want %q", data, "abc")
	}
	if len(*fatals) != 0 {
		t.Fatalf("healthy close escalated: %v", *fatals)
	}
}

func TestFile_CloseIdempotent(t *testing.T) {
	sink := &faultSink{}
	f := NewWriter(sink, "test")

	if err := f.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if sink.closed != 1 {
		t.Fatalf("sink closed %d times, want 1", sink.closed)
	}
}

func TestFile_CloseFlushFailure(t *testing.T) {
	sink := &faultSink{writeErr: stderrors.New("stale file handle")}
	f := NewWriter(sink, "/mnt/nfs/out.txt")

	// Buffered: the write itself succeeds.
	if err := f.Write([]byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	err := f.Close()
	if err == nil {
		t.Fatal("Close succeeded despite flush failure")
	}
	want := &errors.ResourceError{
		Resource: errors.ResourceFile,
		Op:       errors.OpClose,
		Class:    errors.ClassEnvironment,
	}
	if !stderrors.Is(err, want) {
		t.Fatalf("Close returned %v, want close environment error", err)
	}

	// Even a failed close releases the descriptor.
	if sink.closed != 1 {
		t.Fatalf("sink closed %d times, want 1", sink.closed)
	}

	// Second close is a no-op with no error, and the handle stays invalid.
	if err := f.Close(); err != nil {
		t.Fatalf("second Close after failure: %v", err)
	}
	if err := f.Write([]byte("x")); !stderrors.Is(err, &errors.ResourceError{Class: errors.ClassLogic}) {
		t.Fatalf("Write after failed close returned %v, want logic error", err)
	}
}

func TestFile_CloseDescriptorFailure(t *testing.T) {
	sink := &faultSink{closeErr: stderrors.New("input/output error")}
	f := NewWriter(sink, "test")

	if err := f.Write([]byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	err := f.Close()
	if !stderrors.Is(err, &errors.ResourceError{Op: errors.OpClose}) {
		t.Fatalf("Close returned %v, want close error", err)
	}
	// The flush still happened before the descriptor release failed.
	if sink.buf.String() != "abc" {
		t.Fatalf("sink contains %q, want %q", sink.buf.String(), "abc")
	}
}

func TestFile_WriteAfterClose(t *testing.T) {
	sink := &faultSink{}
	f := NewWriter(sink, "test")

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	err := f.Write([]byte("abc"))
	if !stderrors.Is(err, &errors.ResourceError{Resource: errors.ResourceFile, Op: errors.OpWrite, Class: errors.ClassLogic}) {
		t.Fatalf("Write after close returned %v, want invalid-handle error", err)
	}
}

func TestFile_ReleaseEscalatesFlushFailure(t *testing.T) {
	fatals := recordCleanups(t)
	sink := &faultSink{writeErr: stderrors.New("input/output error")}
	f := NewWriter(sink, "/mnt/nfs/out.txt")

	if err := f.Write([]byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f.Release()

	if len(*fatals) != 1 {
		t.Fatalf("expected one escalation, got %d", len(*fatals))
	}
	if !stderrors.Is((*fatals)[0], &errors.ResourceError{Op: errors.OpClose}) {
		t.Fatalf("escalation %v is not a close error", (*fatals)[0])
	}
}

func TestFile_ReleaseAfterCloseIsNoop(t *testing.T) {
	fatals := recordCleanups(t)
	sink := &faultSink{writeErr: stderrors.New("input/output error")}
	f := NewWriter(sink, "test")

	if err := f.Write([]byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err == nil {
		t.Fatal("Close succeeded despite flush failure")
	}

	// The owner observed the failure; scope exit must stay quiet.
	f.Release()
	if len(*fatals) != 0 {
		t.Fatalf("release after explicit close escalated: %v", *fatals)
	}
}

func TestFile_Move(t *testing.T) {
	fatals := recordCleanups(t)
	sink := &faultSink{}
	f := NewWriter(sink, "test")

	moved := f.Move()

	if err := f.Write([]byte("abc")); !stderrors.Is(err, &errors.ResourceError{Class: errors.ClassLogic}) {
		t.Fatalf("Write on moved-from guard returned %v, want logic error", err)
	}
	f.Release()
	if sink.closed != 0 {
		t.Fatal("moved-from release touched the sink")
	}

	if err := moved.Write([]byte("abc")); err != nil {
		t.Fatalf("Write on destination: %v", err)
	}
	if err := moved.Close(); err != nil {
		t.Fatalf("Close on destination: %v", err)
	}
	if sink.buf.String() != "abc" {
		t.Fatalf("sink contains %q, want %q", sink.buf.String(), "abc")
	}
	if len(*fatals) != 0 {
		t.Fatalf("unexpected escalations: %v", *fatals)
	}
}
