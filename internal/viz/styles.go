package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/icehouse/internal/analysis"
	"github.com/san-kum/icehouse/internal/climate"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	IceStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#66ccff")).Bold(true)
	HotStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8844")).Bold(true)
	UnstableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")).Italic(true)
)

func BranchStyle(b analysis.Branch) lipgloss.Style {
	switch b {
	case analysis.Ice:
		return IceStyle
	case analysis.Hot:
		return HotStyle
	default:
		return UnstableStyle
	}
}

// TempStyle colours a temperature by which side of freezing it lies on.
func TempStyle(T float64) lipgloss.Style {
	if T > climate.FreezingPoint {
		return HotStyle
	}
	return IceStyle
}

func Header(title string) string {
	return HeaderStyle.Render(title)
}

// Metric renders an aligned "label: value" line.
func Metric(label, value string) string {
	return MetricLabel.Render(label+":") + " " + MetricValue.Render(value)
}

// Sparkline compresses values into a one-line bar chart of at most width
// runes, sampling evenly when there are more values than columns.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := bounds(values)
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}

func Separator(width int) string {
	if width < 7 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
