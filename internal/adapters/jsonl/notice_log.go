// Package jsonl contains the newline-delimited JSON stores: the notice
// log and the decision log. Both are append-only; history is never
// rewritten in place.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/example/noticewatch/internal/core/notice"
)

// NoticeLog appends suspicious notices to a JSONL file, one record per
// line.
type NoticeLog struct {
	path   string
	logger *slog.Logger
}

// NewNoticeLog creates a notice log at path. The parent directory is
// created on first append.
func NewNoticeLog(path string, logger *slog.Logger) *NoticeLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoticeLog{path: path, logger: logger}
}

// Path returns the backing file path.
func (l *NoticeLog) Path() string {
	return l.path
}

// Append serializes the notice onto the log. Write faults are logged
// and swallowed: a disk problem must not abort the detection pass that
// produced the notice.
func (l *NoticeLog) Append(ctx context.Context, n *notice.Notice) {
	if err := appendLine(l.path, n); err != nil {
		l.logger.Error("failed to log suspicious notice",
			slog.String("bill_id", n.BillID), slog.Any("error", err))
		return
	}
	l.logger.Debug("logged suspicious notice", slog.String("bill_id", n.BillID))
}

// LoadAll parses every record in the log. Blank lines are ignored and
// corrupt lines are skipped with a warning; bad history never aborts a
// load. A missing log file yields an empty slice.
func (l *NoticeLog) LoadAll(ctx context.Context) ([]*notice.Notice, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open notice log: %w", err)
	}
	defer f.Close()

	var notices []*notice.Notice
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 || allSpace(line) {
			continue
		}
		var n notice.Notice
		if err := json.Unmarshal(line, &n); err != nil {
			l.logger.Warn("skipping unparseable notice log line",
				slog.Int("line", lineNo), slog.Any("error", err))
			continue
		}
		notices = append(notices, &n)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notice log: %w", err)
	}

	return notices, nil
}

// Clear deletes the log file. Destructive; callers gate this behind an
// explicit flag.
func (l *NoticeLog) Clear(ctx context.Context) error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear notice log: %w", err)
	}
	l.logger.Info("cleared suspicious notice log", slog.String("path", l.path))
	return nil
}

func allSpace(line []byte) bool {
	for _, b := range line {
		switch b {
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

// appendLine marshals v and appends it with a trailing newline.
func appendLine(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log for append: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}
