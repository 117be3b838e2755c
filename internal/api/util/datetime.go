package util

import "time"

// datetimeFields are compared after normalization so user input like "2025-11-24" works
var datetimeFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

// IsDatetimeField checks if a field is a datetime field
func IsDatetimeField(field string) bool {
	return datetimeFields[field]
}

// NormalizeDateTime parses the common datetime spellings and returns them as
// "2006-01-02 15:04:05" in UTC, which orders correctly as a plain string.
// Unparseable values are returned unchanged.
func NormalizeDateTime(value string) string {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return FormatDateTime(t)
		}
	}
	return value
}

// FormatDateTime renders t in the normalized comparison format
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
