package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// EncodeStreaks serializes a habit id -> streak map for a JSON column.
func EncodeStreaks(m map[int]int) (string, error) {
	if m == nil {
		m = map[int]int{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode streaks: %w", err)
	}
	return string(b), nil
}

// DecodeStreaks parses a JSON streak column. Empty input yields an empty map.
func DecodeStreaks(s string) (map[int]int, error) {
	m := map[int]int{}
	if s == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("failed to decode streaks: %w", err)
	}
	return m, nil
}

// FormatTime renders a timestamp the way text columns store it.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseTime reads a timestamp written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
