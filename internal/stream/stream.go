// Package stream runs external commands and multiplexes their stdout and
// stderr into line-oriented output, delivered in real time via a callback
// or a channel, with the full output and exit status available once the
// process terminates.
package stream

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// maxLineBytes caps the length of a single output line.
	maxLineBytes = 1024 * 1024

	// lineBuffer is the capacity of the channel returned by Stream.Lines.
	// A full channel suspends the producer until the consumer drains it.
	lineBuffer = 64
)

// ExitCodeUnknown is reported when the exit code could not be obtained,
// e.g. the process was killed by a signal.
const ExitCodeUnknown = -1

// Source identifies which pipe a line was read from.
type Source int

const (
	// SourceStdout marks a line read from the process's standard output.
	SourceStdout Source = iota
	// SourceStderr marks a line read from the process's standard error.
	SourceStderr
)

func (s Source) String() string {
	if s == SourceStderr {
		return "stderr"
	}
	return "stdout"
}

// Line is a single decoded output line, without its trailing newline.
// A final partial line with no trailing newline is still delivered.
type Line struct {
	Source Source
	Text   string
}

// Result is the outcome of one streamed invocation. Stdout and Stderr
// hold every observed line of the respective pipe joined with newlines,
// in arrival order, so the batch view never diverges from what was
// streamed to the consumer.
type Result struct {
	RunID    string
	ExitCode int
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Streamer spawns a fixed binary with per-call arguments. The binary path
// is explicit configuration; there is no package-level default.
type Streamer struct {
	binary string
	env    []string // appended to the parent environment
	dir    string
	stdin  io.Reader
}

// Option configures a Streamer.
type Option func(*Streamer)

// WithEnv appends environment variables (KEY=value) to the inherited
// parent environment for every spawned process.
func WithEnv(env []string) Option {
	return func(s *Streamer) { s.env = env }
}

// WithDir sets the working directory for every spawned process.
func WithDir(dir string) Option {
	return func(s *Streamer) { s.dir = dir }
}

// WithStdin connects r to the spawned process's standard input. Without
// it the child gets no stdin, so interactive children see EOF instead
// of blocking on input that will never come.
func WithStdin(r io.Reader) Option {
	return func(s *Streamer) { s.stdin = r }
}

// New creates a Streamer for the given binary.
func New(binary string, opts ...Option) *Streamer {
	s := &Streamer{binary: binary}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Binary returns the configured executable path.
func (s *Streamer) Binary() string { return s.binary }

// Run executes the binary with args, invoking fn once per output line as
// it arrives. fn may be nil for batch-only use. Run returns once both
// pipes are drained and the process has been reaped.
//
// A non-zero exit is not an error: it is a Result with Success false.
// Errors are limited to SpawnError, ReadError and WaitError.
func (s *Streamer) Run(ctx context.Context, args []string, fn func(Line)) (*Result, error) {
	st, err := s.Start(ctx, args)
	if err != nil {
		return nil, err
	}
	for ln := range st.Lines() {
		if fn != nil {
			fn(ln)
		}
	}
	return st.Wait()
}

// Output executes the binary with args and returns the batch Result,
// discarding real-time delivery.
func (s *Streamer) Output(ctx context.Context, args []string) (*Result, error) {
	return s.Run(ctx, args, nil)
}

// Start executes the binary with args and returns immediately after a
// successful spawn. The caller receives lines from Stream.Lines at its
// own pace and collects the Result from Stream.Wait.
func (s *Streamer) Start(ctx context.Context, args []string) (*Stream, error) {
	runCtx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(runCtx, s.binary, args...)
	if len(s.env) > 0 {
		cmd.Env = append(os.Environ(), s.env...)
	}
	if s.dir != "" {
		cmd.Dir = s.dir
	}
	if s.stdin != nil {
		cmd.Stdin = s.stdin
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, &SpawnError{Binary: s.binary, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, &SpawnError{Binary: s.binary, Err: err}
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, &SpawnError{Binary: s.binary, Err: err}
	}

	st := &Stream{
		runID:  uuid.New().String(),
		lines:  make(chan Line, lineBuffer),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go st.pump(runCtx, cmd, stdout, stderr, time.Now())
	return st, nil
}

// Stream is a live streamed invocation.
type Stream struct {
	runID  string
	lines  chan Line
	done   chan struct{}
	cancel context.CancelFunc

	// set by pump before done is closed
	result *Result
	err    error
}

// Lines returns the channel of output lines. It is closed once both
// pipes reach end-of-stream.
func (st *Stream) Lines() <-chan Line { return st.lines }

// Wait blocks until the process has exited and returns the final Result.
// It is safe to call from multiple goroutines and after Close.
func (st *Stream) Wait() (*Result, error) {
	<-st.done
	return st.result, st.err
}

// Close abandons the stream: it kills the child process, drains any
// pending lines, and reaps the process. Safe to call at any time,
// including after the process has already exited.
func (st *Stream) Close() error {
	st.cancel()
	for range st.lines {
		// discard
	}
	_, err := st.Wait()
	return err
}

// pump drives both pipe readers, accumulates every line, forwards lines
// to the consumer channel, and finalizes the Result after reaping the
// process. It runs on its own goroutine and closes st.lines and st.done.
func (st *Stream) pump(ctx context.Context, cmd *exec.Cmd, stdout, stderr io.Reader, start time.Time) {
	raw := make(chan Line)
	readErrs := make(chan error, 2)

	var wg sync.WaitGroup
	wg.Add(2)
	go readPipe(stdout, SourceStdout, raw, readErrs, st.cancel, &wg)
	go readPipe(stderr, SourceStderr, raw, readErrs, st.cancel, &wg)
	go func() {
		wg.Wait()
		close(raw)
	}()

	var outBuf, errBuf strings.Builder
	delivering := true
	for ln := range raw {
		buf := &outBuf
		if ln.Source == SourceStderr {
			buf = &errBuf
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(ln.Text)

		if !delivering {
			continue
		}
		select {
		case st.lines <- ln:
			continue
		default:
		}
		select {
		case st.lines <- ln:
		case <-ctx.Done():
			// Consumer is gone. Keep draining the pipes so the child
			// is never blocked on a full pipe while it shuts down.
			delivering = false
		}
	}
	close(st.lines)

	var readErr error
	select {
	case readErr = <-readErrs:
	default:
	}

	waitErr := cmd.Wait()

	res := &Result{
		RunID:    st.runID,
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		Duration: time.Since(start),
	}
	switch {
	case readErr != nil:
		st.err = readErr
	case waitErr != nil:
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) {
			res.ExitCode = ee.ExitCode()
		} else {
			st.err = &WaitError{Err: waitErr}
		}
	}
	if st.err == nil {
		res.Success = res.ExitCode == 0
		st.result = res
	}
	close(st.done)
}

// readPipe decodes one pipe into lines until end-of-stream. A read
// failure that is not a clean close is reported as a ReadError and
// aborts the run: the run context is cancelled so the child is killed,
// and the pipe's remaining bytes are discarded so a child mid-write is
// never left blocked on a full pipe.
func readPipe(r io.Reader, src Source, out chan<- Line, errs chan<- error, abort context.CancelFunc, wg *sync.WaitGroup) {
	defer wg.Done()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		out <- Line{Source: src, Text: sc.Text()}
	}
	if err := sc.Err(); err != nil {
		errs <- &ReadError{Source: src, Err: err}
		abort()
		_, _ = io.Copy(io.Discard, r)
	}
}
