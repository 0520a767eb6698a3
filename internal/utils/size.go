package utils

import "fmt"

const sizeUnitLetters = "KMGTPE"

// FormatFileSize converts a byte length into a binary-unit string such as "512 B" or "1.5 KB".
func FormatFileSize(bytes uint64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	value := float64(bytes)
	unitIndex := -1
	for value >= 1024 && unitIndex < len(sizeUnitLetters)-1 {
		value /= 1024
		unitIndex++
	}
	return fmt.Sprintf("%.1f %cB", value, sizeUnitLetters[unitIndex])
}
