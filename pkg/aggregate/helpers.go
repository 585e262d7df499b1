// File: pkg/aggregate/helpers.go
package aggregate

import (
	"bytes"

	"go.uber.org/zap"
)

// exceedsSize reports whether c is larger than the configured size limit.
func (a *Aggregator) exceedsSize(c Candidate) bool {
	limit := int64(a.args.MaxFileSizeKB) * 1024
	if limit <= 0 || c.Size <= limit {
		return false
	}
	a.logger.Info("Skipping file exceeding size limit",
		zap.String("file", c.Path),
		zap.Int64("sizeBytes", c.Size),
		zap.Int("maxSizeKB", a.args.MaxFileSizeKB))
	return true
}

// exceedsLines reports whether data has more lines than the configured limit.
func (a *Aggregator) exceedsLines(c Candidate, data []byte) bool {
	if a.args.MaxLines <= 0 {
		return false
	}
	lines := countLines(data)
	if lines <= a.args.MaxLines {
		return false
	}
	a.logger.Info("Skipping file exceeding line limit",
		zap.String("file", c.Path),
		zap.Int("lines", lines),
		zap.Int("maxLines", a.args.MaxLines))
	return true
}

// countLines counts lines the way editors do: a final line without a
// trailing newline still counts.
func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}
