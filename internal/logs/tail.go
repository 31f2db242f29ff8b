package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const pollInterval = 250 * time.Millisecond

// Request selects which log lines to read. A negative Offset asks for the
// last Limit lines; otherwise reading resumes at Offset. WaitFor, when
// positive, blocks up to that long for new lines if none are ready.
type Request struct {
	Offset  int64
	Limit   int
	WaitFor time.Duration
}

// Batch is one chunk of log output plus the offset to resume from.
type Batch struct {
	Lines  []string
	Offset int64
}

// Tail reads log lines from the file at path. A missing file yields an
// empty batch rather than an error so callers can poll before the daemon
// has written anything. Cancelling ctx ends a wait early without error.
func Tail(ctx context.Context, path string, req Request) (Batch, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Batch{}, nil
		}
		return Batch{Offset: req.Offset}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return Batch{Offset: req.Offset}, fmt.Errorf("log path %q is a directory", path)
	}

	var batch Batch
	if req.Offset < 0 {
		batch, err = lastLines(path, req.Limit)
	} else {
		offset := req.Offset
		if offset > info.Size() {
			offset = info.Size()
		}
		batch, err = linesFrom(path, offset)
	}
	if err != nil {
		return batch, err
	}
	if len(batch.Lines) > 0 || req.WaitFor <= 0 {
		return batch, nil
	}
	return await(ctx, path, batch.Offset, req.WaitFor)
}

// lastLines keeps a fixed-size window of the most recent lines while
// scanning forward, so memory stays bounded regardless of file size.
func lastLines(path string, limit int) (Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Batch{}, nil
		}
		return Batch{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return Batch{}, fmt.Errorf("seek log file: %w", err)
		}
		return Batch{Offset: end}, nil
	}

	ring := make([]string, 0, limit)
	oldest := 0
	scanner := newLineScanner(file)
	for scanner.Scan() {
		if len(ring) < limit {
			ring = append(ring, scanner.Text())
			continue
		}
		ring[oldest] = scanner.Text()
		oldest = (oldest + 1) % limit
	}
	if err := scanner.Err(); err != nil {
		return Batch{}, fmt.Errorf("read log file: %w", err)
	}

	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return Batch{}, fmt.Errorf("seek log file: %w", err)
	}

	lines := make([]string, 0, len(ring))
	lines = append(lines, ring[oldest:]...)
	lines = append(lines, ring[:oldest]...)
	return Batch{Lines: lines, Offset: end}, nil
}

func linesFrom(path string, offset int64) (Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Batch{}, nil
		}
		return Batch{Offset: offset}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return Batch{Offset: offset}, fmt.Errorf("seek log file: %w", err)
	}

	scanner := newLineScanner(file)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Batch{Offset: offset}, fmt.Errorf("read log file: %w", err)
	}

	pos, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return Batch{Offset: offset}, fmt.Errorf("determine log offset: %w", err)
	}
	return Batch{Lines: lines, Offset: pos}, nil
}

// await polls for new lines past offset until some appear, the wait
// elapses, or ctx is cancelled. Timeouts and cancellation both return an
// empty batch carrying the current offset.
func await(ctx context.Context, path string, offset int64, wait time.Duration) (Batch, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		batch, err := linesFrom(path, offset)
		if err != nil || len(batch.Lines) > 0 {
			return batch, err
		}
		offset = batch.Offset

		select {
		case <-ctx.Done():
			return batch, nil
		case <-timer.C:
			return batch, nil
		case <-ticker.C:
		}
	}
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}
