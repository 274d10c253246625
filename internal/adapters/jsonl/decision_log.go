package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/example/noticewatch/internal/core/review"
)

// DecisionLog appends review decisions to a JSONL file. Unlike the
// notice log, append failures are returned to the caller: a decision
// that cannot be persisted must not be silently lost.
type DecisionLog struct {
	path   string
	logger *slog.Logger
}

// NewDecisionLog creates a decision log at path.
func NewDecisionLog(path string, logger *slog.Logger) *DecisionLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecisionLog{path: path, logger: logger}
}

// Path returns the backing file path.
func (l *DecisionLog) Path() string {
	return l.path
}

// Append writes one decision synchronously.
func (l *DecisionLog) Append(ctx context.Context, d review.Decision) error {
	if err := appendLine(l.path, d); err != nil {
		return fmt.Errorf("failed to save decision for %s: %w", d.BillID, err)
	}
	l.logger.Debug("saved decision",
		slog.String("bill_id", d.BillID), slog.String("determination", d.Determination))
	return nil
}

// LoadAll parses every decision in the log, skipping blank and corrupt
// lines with a warning. A missing file yields an empty slice.
func (l *DecisionLog) LoadAll(ctx context.Context) ([]review.Decision, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open decision log: %w", err)
	}
	defer f.Close()

	var decisions []review.Decision
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 || allSpace(line) {
			continue
		}
		var d review.Decision
		if err := json.Unmarshal(line, &d); err != nil {
			l.logger.Warn("skipping unparseable decision line",
				slog.Int("line", lineNo), slog.Any("error", err))
			continue
		}
		decisions = append(decisions, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read decision log: %w", err)
	}

	return decisions, nil
}
