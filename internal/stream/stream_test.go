//go:build !windows

package stream

import (
	"bufio"
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sh returns a Streamer that runs /bin/sh, so tests can drive real
// subprocesses without depending on docker.
func sh(opts ...Option) *Streamer {
	return New("/bin/sh", opts...)
}

func script(src string) []string {
	return []string{"-c", src}
}

func TestRun_StdoutLines(t *testing.T) {
	var lines []Line
	res, err := sh().Run(context.Background(), script("echo one; echo two; echo three"), func(ln Line) {
		lines = append(lines, ln)
	})
	require.NoError(t, err)

	require.Len(t, lines, 3)
	for i, want := range []string{"one", "two", "three"} {
		assert.Equal(t, SourceStdout, lines[i].Source)
		assert.Equal(t, want, lines[i].Text)
	}

	assert.Equal(t, "one\ntwo\nthree", res.Stdout)
	assert.Empty(t, res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.RunID)
}

func TestRun_StreamedAndBatchViewsAgree(t *testing.T) {
	var streamed []string
	res, err := sh().Run(context.Background(), script("seq 1 50"), func(ln Line) {
		streamed = append(streamed, ln.Text)
	})
	require.NoError(t, err)

	require.Len(t, streamed, 50)
	assert.Equal(t, streamed, strings.Split(res.Stdout, "\n"))
}

func TestRun_StdoutAndStderr(t *testing.T) {
	var out, errLines []string
	res, err := sh().Run(context.Background(), script("echo line1; echo line2 1>&2"), func(ln Line) {
		switch ln.Source {
		case SourceStdout:
			out = append(out, ln.Text)
		case SourceStderr:
			errLines = append(errLines, ln.Text)
		}
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"line1"}, out)
	assert.Equal(t, []string{"line2"}, errLines)
	assert.Equal(t, "line1", res.Stdout)
	assert.Equal(t, "line2", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Success)
}

func TestRun_PerStreamOrderPreserved(t *testing.T) {
	// Interleave writes to both streams; cross-stream order is
	// unspecified, but each stream must stay in write order.
	src := "for i in 1 2 3 4 5; do echo out$i; echo err$i 1>&2; done"
	var out, errLines []string
	_, err := sh().Run(context.Background(), script(src), func(ln Line) {
		if ln.Source == SourceStdout {
			out = append(out, ln.Text)
		} else {
			errLines = append(errLines, ln.Text)
		}
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"out1", "out2", "out3", "out4", "out5"}, out)
	assert.Equal(t, []string{"err1", "err2", "err3", "err4", "err5"}, errLines)
}

func TestRun_NoTrailingNewline(t *testing.T) {
	var lines []Line
	res, err := sh().Run(context.Background(), script(`printf 'complete\npartial'`), func(ln Line) {
		lines = append(lines, ln)
	})
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "complete", lines[0].Text)
	assert.Equal(t, "partial", lines[1].Text)
	assert.Equal(t, "complete\npartial", res.Stdout)
}

func TestRun_NonZeroExit(t *testing.T) {
	res, err := sh().Run(context.Background(), script("exit 42"), nil)
	require.NoError(t, err, "non-zero exit is not an error")

	assert.Equal(t, 42, res.ExitCode)
	assert.False(t, res.Success)
	assert.Empty(t, res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestRun_ExitOne(t *testing.T) {
	res, err := sh().Run(context.Background(), script("echo oops 1>&2; exit 1"), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.ExitCode)
	assert.False(t, res.Success)
	assert.Equal(t, "oops", res.Stderr)
}

func TestRun_EmptyOutput(t *testing.T) {
	res, err := sh().Run(context.Background(), script("true"), nil)
	require.NoError(t, err)

	assert.Empty(t, res.Stdout)
	assert.Empty(t, res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Success)
}

func TestRun_NilCallback(t *testing.T) {
	res, err := sh().Output(context.Background(), script("echo batch"))
	require.NoError(t, err)
	assert.Equal(t, "batch", res.Stdout)
}

func TestRun_SpawnError(t *testing.T) {
	s := New("/nonexistent/binary/definitely-not-here")
	res, err := s.Run(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Nil(t, res)

	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, "/nonexistent/binary/definitely-not-here", spawnErr.Binary)
}

func TestRun_WithDir(t *testing.T) {
	dir := t.TempDir()
	res, err := sh(WithDir(dir)).Output(context.Background(), script("pwd"))
	require.NoError(t, err)

	// t.TempDir may sit behind a symlink (macOS /tmp).
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved, res.Stdout)
}

func TestRun_WithEnv(t *testing.T) {
	res, err := sh(WithEnv([]string{"DOCKHAND_TEST_VAR=hello"})).
		Output(context.Background(), script("echo $DOCKHAND_TEST_VAR"))
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Stdout)
}

func TestRun_WithStdin(t *testing.T) {
	res, err := sh(WithStdin(strings.NewReader("alpha\nbeta\n"))).
		Output(context.Background(), script("cat"))
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta", res.Stdout)
	assert.True(t, res.Success)
}

func TestRun_NoStdinMeansEOF(t *testing.T) {
	// Without WithStdin the child must see EOF immediately, not block
	// waiting for input.
	res, err := sh().Output(context.Background(), script("cat; echo done"))
	require.NoError(t, err)
	assert.Equal(t, "done", res.Stdout)
}

func TestRun_ContextCancelKillsProcess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var res *Result
	var runErr error
	go func() {
		defer close(done)
		// exec so the kill hits the sleep itself, not just the shell.
		res, runErr = sh().Run(ctx, script("echo started; exec sleep 30"), func(ln Line) {
			if ln.Text == "started" {
				cancel()
			}
		})
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("run did not stop after context cancellation")
	}
	cancel()

	require.NoError(t, runErr)
	assert.False(t, res.Success)
	assert.Equal(t, ExitCodeUnknown, res.ExitCode)
}

func TestRun_OversizedLineAbortsRun(t *testing.T) {
	// A line longer than the scanner limit is a read failure. It must
	// surface as a ReadError and kill the child; a child still writing
	// into a full pipe must never leave Run hanging.
	src := "echo first; head -c 2097152 /dev/zero | tr '\\0' a; echo; echo tail"

	done := make(chan struct{})
	var lines []string
	var res *Result
	var runErr error
	go func() {
		defer close(done)
		res, runErr = sh().Run(context.Background(), script(src), func(ln Line) {
			lines = append(lines, ln.Text)
		})
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after the oversized line")
	}

	require.Error(t, runErr)
	var readErr *ReadError
	require.ErrorAs(t, runErr, &readErr)
	assert.Equal(t, SourceStdout, readErr.Source)
	assert.ErrorIs(t, runErr, bufio.ErrTooLong)
	assert.Nil(t, res)
	assert.Equal(t, []string{"first"}, lines, "lines before the failure stay delivered")
}

func TestStart_ChannelMode(t *testing.T) {
	st, err := sh().Start(context.Background(), script("echo a; echo b 1>&2; echo c"))
	require.NoError(t, err)

	var out, errLines []string
	for ln := range st.Lines() {
		if ln.Source == SourceStdout {
			out = append(out, ln.Text)
		} else {
			errLines = append(errLines, ln.Text)
		}
	}

	res, err := st.Wait()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, out)
	assert.Equal(t, []string{"b"}, errLines)
	assert.Equal(t, "a\nc", res.Stdout)
	assert.Equal(t, "b", res.Stderr)
	assert.True(t, res.Success)
}

func TestStart_WaitIsIdempotent(t *testing.T) {
	st, err := sh().Start(context.Background(), script("echo once"))
	require.NoError(t, err)
	for range st.Lines() {
		// drain
	}

	first, err := st.Wait()
	require.NoError(t, err)
	second, err := st.Wait()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestStart_CloseStopsLongRunningProcess(t *testing.T) {
	st, err := sh().Start(context.Background(), script("echo ready; exec sleep 30"))
	require.NoError(t, err)

	// Take the first line, then abandon the stream.
	ln, ok := <-st.Lines()
	require.True(t, ok)
	assert.Equal(t, "ready", ln.Text)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = st.Close()
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Close did not reap the process")
	}

	res, err := st.Wait()
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestStart_ConsumerStopsReadingEarly(t *testing.T) {
	// A consumer that stops receiving must not wedge or panic the
	// producer; with output below the channel buffer the process exits
	// and the stream finishes on its own.
	st, err := sh().Start(context.Background(), script("seq 1 10"))
	require.NoError(t, err)

	// Read only the first two lines, never touch the channel again.
	<-st.Lines()
	<-st.Lines()

	res, err := st.Wait()
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 10, len(strings.Split(res.Stdout, "\n")))
}

func TestStart_Backpressure(t *testing.T) {
	// Emit more lines than the channel buffer holds; the producer must
	// suspend until the consumer drains, then complete normally.
	n := lineBuffer * 4
	st, err := sh().Start(context.Background(), script("seq 1 "+strconv.Itoa(n)))
	require.NoError(t, err)

	count := 0
	for range st.Lines() {
		count++
		if count == 1 {
			time.Sleep(50 * time.Millisecond) // let the producer fill the buffer
		}
	}

	res, err := st.Wait()
	require.NoError(t, err)
	assert.Equal(t, n, count)
	assert.True(t, res.Success)
}

func TestResult_DurationPopulated(t *testing.T) {
	res, err := sh().Output(context.Background(), script("true"))
	require.NoError(t, err)
	assert.Greater(t, res.Duration, time.Duration(0))
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "stdout", SourceStdout.String())
	assert.Equal(t, "stderr", SourceStderr.String())
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("boom")

	assert.ErrorIs(t, &SpawnError{Binary: "docker", Err: cause}, cause)
	assert.ErrorIs(t, &ReadError{Source: SourceStderr, Err: cause}, cause)
	assert.ErrorIs(t, &WaitError{Err: cause}, cause)

	assert.Contains(t, (&SpawnError{Binary: "docker", Err: cause}).Error(), "docker")
	assert.Contains(t, (&ReadError{Source: SourceStderr, Err: cause}).Error(), "stderr")
}
