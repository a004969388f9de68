package observe

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// OutputFormatter formats Events for human-readable display, grounded
// directly on the teacher's datalog/annotations.OutputFormatter: same
// auto-detect-terminal-color construction, same small colorize/colorizeCount
// vocabulary.
type OutputFormatter struct {
	useColor bool
	writer   io.Writer
}

// NewOutputFormatter creates a formatter with color support detection.
func NewOutputFormatter(w io.Writer) *OutputFormatter {
	if w == nil {
		w = os.Stdout
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isTerminal(f.Fd())
	}
	return &OutputFormatter{useColor: useColor, writer: w}
}

// ConsoleHandler returns a Handler that prints formatted events to stdout.
func ConsoleHandler() Handler {
	formatter := NewOutputFormatter(os.Stdout)
	return func(event Event) {
		if line := formatter.Format(event); line != "" {
			fmt.Fprintln(formatter.writer, line)
		}
	}
}

// Format converts an Event into a human-readable line.
func (f *OutputFormatter) Format(event Event) string {
	switch event.Name {
	case StratifyBegin:
		return fmt.Sprintf("%s stratifying rule set", f.colorize("===", color.FgYellow))

	case StratifyComplete:
		strata, _ := event.Data["strata.count"].(int)
		return fmt.Sprintf("%s %s", f.colorize("===", color.FgGreen), f.colorizeCount("strata", strata))

	case NegativeRecursionDetected:
		return fmt.Sprintf("%s negative recursion: %v", f.colorize("✗", color.FgRed), event.Data["trail"])

	case StratumBegin:
		return fmt.Sprintf("%s stratum %v: %s starting", f.colorize("===", color.FgYellow), event.Data["stratum"], f.colorizeCount("rules", intData(event.Data, "rules.count")))

	case StratumIteration:
		return fmt.Sprintf("  iteration %v: %s", event.Data["iteration"], f.colorizeCount("facts", intData(event.Data, "facts.added")))

	case StratumFixedPoint:
		return fmt.Sprintf("%s stratum %v fixed point after %v iterations", f.colorize("===", color.FgGreen), event.Data["stratum"], event.Data["iterations"])

	case RuleFired:
		return fmt.Sprintf("  %s %v: %s", f.colorize("->", color.FgCyan), event.Data["head"], f.colorizeCount("solutions", intData(event.Data, "solutions")))

	case QueryInvoked:
		return fmt.Sprintf("%s query: %s", f.colorize(">>>", color.FgCyan), truncateGoals(fmt.Sprint(event.Data["goals"])))

	case QueryComplete:
		return fmt.Sprintf("%s %s in %s", f.colorize("===", color.FgGreen), f.colorizeCount("answers", intData(event.Data, "answers.count")), event.Latency)

	case DeleteApplied:
		return fmt.Sprintf("%s removed %s", f.colorize("---", color.FgRed), f.colorizeCount("facts", intData(event.Data, "facts.removed")))
	}
	return ""
}

func intData(data map[string]any, key string) int {
	if v, ok := data[key].(int); ok {
		return v
	}
	return 0
}

func (f *OutputFormatter) colorizeCount(label string, count int) string {
	text := fmt.Sprintf("%d %s", count, label)
	if !f.useColor {
		return text
	}
	switch strings.ToLower(label) {
	case "rules":
		return color.CyanString(text)
	case "facts":
		return color.MagentaString(text)
	case "answers":
		return color.BlueString(text)
	case "strata":
		return color.YellowString(text)
	default:
		return text
	}
}

func (f *OutputFormatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.useColor {
		return text
	}
	return color.New(attrs...).Sprint(text)
}

func truncateGoals(goals string) string {
	goals = strings.Join(strings.Fields(goals), " ")
	const maxLen = 80
	if len(goals) <= maxLen {
		return goals
	}
	return goals[:maxLen-3] + "..."
}

// isTerminal reports whether fd looks like a terminal. A simplified check,
// same caveat as the teacher's own version: a real implementation would use
// golang.org/x/term, not a bare fd-number comparison.
func isTerminal(fd uintptr) bool {
	return fd == uintptr(1) || fd == uintptr(2)
}
