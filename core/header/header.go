// Package header isolates the comment-prefixed schema header of an ECSV
// document from its data section.
//
// The header grammar is line-oriented:
//
//   - a line starting with the version marker "# %ECSV" is discarded;
//   - a line starting with "# " contributes one line of schema text,
//     with the prefix stripped;
//   - a line starting with "##" is a plain comment and is discarded;
//   - the first line matching none of these ends the header.
//
// Extraction never consumes the first data line: the returned remainder
// begins at exactly that line, so the row-tokenization phase starts with
// zero lines skipped or duplicated.
package header

import (
	"bytes"
	"strings"
)

const (
	// commentPrefix marks a schema line.
	commentPrefix = "# "
	// plainCommentPrefix marks a discarded comment line.
	plainCommentPrefix = "##"
	// versionMarker is the fixed literal token of the optional first
	// line, e.g. "# %ECSV 1.0".
	versionMarker = "# %ECSV"
)

// Extract splits raw ECSV input into the accumulated schema text and the
// remaining data section. Empty schema text is valid and corresponds to
// a document without a header.
func Extract(data []byte) (schemaText string, rest []byte) {
	var sb strings.Builder
	offset := 0
	for offset < len(data) {
		end := bytes.IndexByte(data[offset:], '\n')
		var line string
		next := len(data)
		if end >= 0 {
			line = string(data[offset : offset+end])
			next = offset + end + 1
		} else {
			line = string(data[offset:])
		}
		line = strings.TrimSuffix(line, "\r")

		switch {
		case strings.HasPrefix(line, versionMarker):
			// discard
		case strings.HasPrefix(line, plainCommentPrefix):
			// discard
		case strings.HasPrefix(line, commentPrefix):
			sb.WriteString(line[len(commentPrefix):])
			sb.WriteByte('\n')
		default:
			// First ordinary line: the data section starts here.
			return sb.String(), data[offset:]
		}
		offset = next
	}
	return sb.String(), nil
}
