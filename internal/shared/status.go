package shared

import (
	"fmt"
	"strings"
)

// ProgressStatus is the reading state of one (user, story) pair.
type ProgressStatus string

const (
	StatusStarted   ProgressStatus = "STARTED"
	StatusCompleted ProgressStatus = "COMPLETED"
)

// ParseProgressStatus is case-insensitive.
func ParseProgressStatus(raw string) (ProgressStatus, error) {
	switch ProgressStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusStarted:
		return StatusStarted, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status %q: must be STARTED or COMPLETED", raw)
}
