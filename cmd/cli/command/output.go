package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	labelColor   = color.New(color.FgCyan)
	dimColor     = color.New(color.FgHiBlack)
)

func printSuccess(format string, args ...any) {
	successColor.Printf("✓ "+format+"\n", args...)
}

func printError(err error) {
	errorColor.Fprintf(os.Stderr, "✗ %v\n", err)
}

func printField(label string, value any) {
	labelColor.Printf("%-22s", label+":")
	fmt.Println(value)
}

func printDim(format string, args ...any) {
	dimColor.Printf(format+"\n", args...)
}

// stars renders a 1-5 rating as filled and empty stars.
func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// bar renders a proportional bar of the given width.
func bar(part, whole int64, width int) string {
	if whole <= 0 || width <= 0 {
		return ""
	}
	filled := int(part * int64(width) / whole)
	return strings.Repeat("█", filled)
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func title(storyTitle, storyID string) string {
	if storyTitle == "" {
		return storyID
	}
	return storyTitle
}
