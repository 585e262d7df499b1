package aggregate

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// processCandidate reads c and formats its block. skip is true when a limit
// excludes the file from the output entirely.
func (a *Aggregator) processCandidate(ctx context.Context, c Candidate) (fc FileContent, skip bool) {
	if a.exceedsSize(c) {
		return FileContent{}, true
	}

	if isCommonBinaryExtension(c.Path) {
		a.logger.Warn("Skipping binary file", zap.String("file", c.Path))
		return errorBlock(c.Path, ErrBinaryContent), false
	}

	a.logger.Debug("Reading file content", zap.String("file", c.Path))
	data, err := c.load(ctx)
	if err != nil {
		a.logger.Warn("Failed to read file", zap.String("file", c.Path), zap.Error(err))
		return errorBlock(c.Path, err), false
	}

	if err := checkText(data); err != nil {
		a.logger.Warn("Skipping binary file", zap.String("file", c.Path), zap.Error(err))
		return errorBlock(c.Path, err), false
	}

	if a.exceedsLines(c, data) {
		return FileContent{}, true
	}

	a.logger.Debug("Successfully read file content",
		zap.String("file", c.Path),
		zap.Int("contentSizeBytes", len(data)))
	return FileContent{Path: c.Path, Content: formatBlock(c.Path, data)}, false
}

// header returns the separator lines that introduce a file block.
func header(path string) string {
	return fmt.Sprintf("%s\n# File: %s\n%s\n", separatorLine, path, separatorLine)
}

// formatBlock renders a file's content under its header, newline terminated
// and followed by a blank line.
func formatBlock(path string, data []byte) string {
	var b bytes.Buffer
	b.WriteString(header(path))
	b.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// errorBlock renders the placeholder written instead of unreadable content.
func errorBlock(path string, err error) FileContent {
	return FileContent{
		Path:    path,
		Content: fmt.Sprintf("%s# Error: %v\n\n", header(path), err),
		Failed:  true,
	}
}
