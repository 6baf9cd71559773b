// Package output provides terminal output utilities for otscore.
//
// This package includes:
//   - Rendering of target-disease pairs and score summaries
//   - A spinner for the blocking association query
//
// Rendering functions return strings and never write to the terminal
// themselves; color is applied only when stdout is a TTY and NO_COLOR is unset.
package output

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/otscore/internal/analyzer"
	"github.com/blackwell-systems/otscore/internal/association"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderHeader renders the section heading for one query.
func RenderHeader(res *analyzer.Result) string {
	return colorize(colorBold, fmt.Sprintf("Associations for %s %s", res.Kind, res.QueryTerm)) + "\n"
}

// RenderPairsTable renders the target-disease pairs in source order, numbered
// from 0.
func RenderPairsTable(pairs association.Table) string {
	if len(pairs) == 0 {
		return "No associations found.\n"
	}

	targetWidth, diseaseWidth := len("Target ID"), len("Disease ID")
	for _, p := range pairs {
		targetWidth = max(targetWidth, len(p.TargetID))
		diseaseWidth = max(diseaseWidth, len(p.DiseaseID))
	}
	indexWidth := max(len("#"), len(strconv.Itoa(len(pairs)-1)))

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %s\n",
		indexWidth, "#", targetWidth, "Target ID", diseaseWidth, "Disease ID", "Score"))
	sb.WriteString(strings.Repeat("─", indexWidth+targetWidth+diseaseWidth+12))
	sb.WriteString("\n")

	// Rows
	for i, p := range pairs {
		sb.WriteString(fmt.Sprintf("%-*d  %-*s  %-*s  %s\n",
			indexWidth, i,
			targetWidth, p.TargetID,
			diseaseWidth, p.DiseaseID,
			FormatScore(p.OverallScore)))
	}

	return sb.String()
}

// RenderSummary renders the score statistics of a non-empty result.
func RenderSummary(res *analyzer.Result) string {
	if res.Empty() || res.ScoreMax == nil {
		return RenderEmptyWarning(res)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Associations:       %d\n", res.Count()))
	sb.WriteString(fmt.Sprintf("Maximum score:      %s\n", FormatScore(*res.ScoreMax)))
	sb.WriteString(fmt.Sprintf("Minimum score:      %s\n", FormatScore(*res.ScoreMin)))
	sb.WriteString(fmt.Sprintf("Mean score:         %s\n", FormatScore(*res.ScoreMean)))
	sb.WriteString(fmt.Sprintf("Standard deviation: %s\n", formatStdDev(*res.ScoreStdDev, res.Count())))
	return sb.String()
}

// RenderEmptyWarning renders the warning shown when a query matched nothing.
func RenderEmptyWarning(res *analyzer.Result) string {
	msg := fmt.Sprintf("Warning: no associations found for %s %s; statistics skipped.", res.Kind, res.QueryTerm)
	return colorize(colorYellow, msg) + "\n"
}

// FormatScore formats an association score with four decimals.
func FormatScore(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// formatStdDev marks the deviation of a single record as undefined.
func formatStdDev(v float64, n int) string {
	if math.IsNaN(v) {
		return colorize(colorGray, fmt.Sprintf("undefined (n=%d)", n))
	}
	return FormatScore(v)
}
