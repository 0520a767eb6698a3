package utils

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	carriageReturnLineFeed = "\r\n"
	carriageReturn         = "\r"
	lineFeed               = "\n"
)

// DecodeUTF8 returns data as text, failing on the first byte sequence that is not valid UTF-8.
func DecodeUTF8(data []byte) (string, error) {
	validated, _, validationError := transform.Bytes(encoding.UTF8Validator, data)
	if validationError != nil {
		return "", fmt.Errorf("decode utf-8: %w", validationError)
	}
	return string(validated), nil
}

// SplitLines splits text on \n, \r\n and \r terminators.
// A trailing terminator does not produce an empty final line, and empty text yields no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	normalized := strings.ReplaceAll(text, carriageReturnLineFeed, lineFeed)
	normalized = strings.ReplaceAll(normalized, carriageReturn, lineFeed)
	normalized = strings.TrimSuffix(normalized, lineFeed)
	return strings.Split(normalized, lineFeed)
}
