// File: pkg/aggregate/binary.go
package aggregate

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// BinaryExtensions lists extensions whose files are never read.
var BinaryExtensions = map[string]bool{
	".7z": true, ".a": true, ".bin": true, ".bmp": true, ".class": true,
	".dll": true, ".dylib": true, ".exe": true, ".gif": true, ".gz": true,
	".ico": true, ".jar": true, ".jpeg": true, ".jpg": true, ".mp3": true,
	".mp4": true, ".o": true, ".pdf": true, ".png": true, ".pyc": true,
	".so": true, ".tar": true, ".tgz": true, ".wasm": true, ".webp": true,
	".woff": true, ".woff2": true, ".xz": true, ".zip": true,
}

// checkText returns nil when data is UTF-8 text without NUL bytes. For
// anything else the error names the detected content type.
func checkText(data []byte) error {
	if utf8.Valid(data) && bytes.IndexByte(data, 0) < 0 {
		return nil
	}
	return fmt.Errorf("%w (%s)", ErrBinaryContent, mimetype.Detect(data).String())
}

// isCommonBinaryExtension checks if the file has a known binary extension.
func isCommonBinaryExtension(p string) bool {
	return BinaryExtensions[strings.ToLower(path.Ext(p))]
}
