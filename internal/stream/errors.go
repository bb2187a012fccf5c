package stream

import "fmt"

// SpawnError reports that the process could not be created at all:
// the binary was not found or the OS refused to start it. It is distinct
// from a non-zero exit code, which is a successfully obtained Result.
type SpawnError struct {
	Binary string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Binary, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ReadError reports an I/O failure on one of the pipes that was not a
// clean end-of-stream. It aborts the invocation; lines already delivered
// are not retracted.
type ReadError struct {
	Source Source
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WaitError reports a failure while awaiting process termination.
type WaitError struct {
	Err error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("wait for process: %v", e.Err)
}

func (e *WaitError) Unwrap() error { return e.Err }
