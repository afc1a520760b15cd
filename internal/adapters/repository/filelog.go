package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/emirpasic/gods/queues/circularbuffer"
	"github.com/okian/matchbalance/internal/domain/model"
	"github.com/okian/matchbalance/pkg/logger"
	"github.com/okian/matchbalance/pkg/metrics"
)

// Default match log configuration constants.
const (
	DefaultCapacity = 10
	defaultFileMode = 0o644
	maxLineBytes    = 1 << 20
)

// FileLog is a MatchLog stored as JSON Lines, one entry per line, oldest
// first. The whole file is rewritten atomically on every append.
type FileLog struct {
	path     string
	capacity int
	mode     os.FileMode
	ring     *circularbuffer.Queue
	skipped  int

	logger logger.Logger
}

var _ MatchLog = (*FileLog)(nil)

// Open loads the log at path. A missing file is an empty log. Blank lines
// are ignored and malformed lines are skipped; if the file holds more than
// capacity entries only the newest are kept.
func Open(ctx context.Context, path string, opts ...Option) (*FileLog, error) {
	l := &FileLog{
		path:     path,
		capacity: DefaultCapacity,
		mode:     defaultFileMode,
	}

	// Apply all options
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("matchlog")
	}
	l.ring = circularbuffer.New(l.capacity)

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		l.logger.Debug(ctx, "match log not found, starting empty", logger.String("path", path))
		metrics.UpdateMatchLogEntries(0)
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open match log %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := l.load(ctx, f); err != nil {
		return nil, fmt.Errorf("read match log %s: %w", path, err)
	}
	metrics.UpdateMatchLogEntries(l.ring.Size())
	l.logger.Info(ctx, "match log loaded",
		logger.String("path", path),
		logger.Int("entries", l.ring.Size()),
		logger.Int("skipped", l.skipped),
	)
	return l, nil
}

func (l *FileLog) load(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		e, err := decodeEntry(line)
		if err != nil {
			l.skipped++
			metrics.RecordMatchLogCorruptLine()
			l.logger.Warn(ctx, "skipping match log line",
				logger.Int("line", lineNo),
				logger.Error(err),
			)
			continue
		}
		l.ring.Enqueue(e)
	}
	return sc.Err()
}

// decodeEntry parses one log line. Lines that are valid JSON but not a
// complete entry (null, {}, arrays) are corrupt records too.
func decodeEntry(line []byte) (model.MatchLogEntry, error) {
	var e model.MatchLogEntry
	if err := json.Unmarshal(line, &e); err != nil {
		return model.MatchLogEntry{}, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	if e.Timestamp.IsZero() {
		return model.MatchLogEntry{}, fmt.Errorf("%w: zero timestamp", ErrCorruptRecord)
	}
	return e, nil
}

// RecordMatch appends entry and rewrites the file.
func (l *FileLog) RecordMatch(ctx context.Context, entry model.MatchLogEntry) error {
	start := time.Now()
	before := l.values()

	evicted := l.ring.Full()
	l.ring.Enqueue(entry)

	if err := l.flush(); err != nil {
		l.restore(before)
		metrics.RecordMatchLogWriteError()
		metrics.RecordErrorByComponent("matchlog", "write_failed")
		return fmt.Errorf("%w: match log %s: %w", ErrStorageWrite, l.path, err)
	}

	if evicted {
		metrics.RecordMatchLogEviction()
	}
	metrics.UpdateMatchLogEntries(l.ring.Size())
	metrics.RecordMatchLogWriteLatency(float64(time.Since(start).Microseconds()) / 1000)
	l.logger.Debug(ctx, "match recorded",
		logger.String("matchID", entry.MatchID),
		logger.Int("entries", l.ring.Size()),
		logger.Bool("evicted", evicted),
	)
	return nil
}

// Entries returns a copy of the log, oldest first.
func (l *FileLog) Entries(_ context.Context) []model.MatchLogEntry {
	return l.values()
}

// Len returns the number of entries held.
func (l *FileLog) Len(_ context.Context) int {
	return l.ring.Size()
}

// Capacity returns the maximum number of entries kept.
func (l *FileLog) Capacity() int { return l.capacity }

// SkippedLines returns how many malformed lines were dropped on load.
func (l *FileLog) SkippedLines() int { return l.skipped }

// Path returns the backing file path.
func (l *FileLog) Path() string { return l.path }

func (l *FileLog) values() []model.MatchLogEntry {
	raw := l.ring.Values()
	out := make([]model.MatchLogEntry, len(raw))
	for i, v := range raw {
		out[i] = v.(model.MatchLogEntry)
	}
	return out
}

func (l *FileLog) restore(entries []model.MatchLogEntry) {
	l.ring.Clear()
	for _, e := range entries {
		l.ring.Enqueue(e)
	}
}

func (l *FileLog) flush() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range l.values() {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return writeFileAtomic(l.path, buf.Bytes(), l.mode)
}
