package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fuellog/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Series is one column-per-value data set for BarChart.
type Series struct {
	Values []float64
	Labels []string // optional, one per value
	Color  lipgloss.Color
}

// Sparkline renders values as a row of unicode blocks scaled to their peak.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// BarChart renders s as vertical bars with a labeled y-axis. Charts too small
// to draw fall back to a sparkline.
func BarChart(s Series, width, height int) string {
	values, labels := s.Values, s.Labels
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, s.Color)
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	step := chartTickStep(peak)
	for int(math.Ceil(peak/step)) > max(2, height/2) {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	ticks := max(1, int(math.Round(ceiling/step)))
	rowsPerTick := max(2, height/ticks)
	chartH := rowsPerTick * ticks

	labelW := max(4, len(formatChartLabel(ceiling))+1)
	chartW := max(5, width-labelW-1)

	// Downsample when the bars would be narrower than two columns.
	n := len(values)
	if n > 1 && (chartW-(n-1))/n < 2 {
		keep := max(2, (chartW+1)/3)
		values, labels = sample(values, labels, keep)
		n = keep
	}
	barW := chartW
	gap := 0
	if n > 1 {
		gap = 1
		barW = (chartW - (n - 1)) / n
	}
	barW = min(barW, 6)
	axisLen := n*barW + (n-1)*gap

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		tick := ""
		if row%rowsPerTick == 0 {
			tick = formatChartLabel(step * float64(row/rowsPerTick))
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", labelW, tick)))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(" "))
			}
			switch {
			case v >= top:
				b.WriteString(bar.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				idx = min(max(idx, 1), 8) - 1
				b.WriteString(bar.Render(strings.Repeat(string(sparkBlocks[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(axis.Render(fmt.Sprintf("%*s└", labelW, "0") + strings.Repeat("─", axisLen)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", labelW+1)))
		b.WriteString(axis.Render(xAxisLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

func sample(values []float64, labels []string, keep int) ([]float64, []string) {
	n := len(values)
	outV := make([]float64, keep)
	var outL []string
	if len(labels) == n {
		outL = make([]string, keep)
	}
	for i := range outV {
		src := i * (n - 1) / (keep - 1)
		outV[i] = values[src]
		if outL != nil {
			outL[i] = labels[src]
		}
	}
	return outV, outL
}

// xAxisLabels lays labels under their bars, skipping any that would overlap.
func xAxisLabels(labels []string, stride, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for i, lbl := range labels {
		pos := i * stride
		r := []rune(lbl)
		if pos <= lastEnd || pos+len(r) > axisLen {
			continue
		}
		copy(buf[pos:], r)
		lastEnd = pos + len(r)
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep picks a 1-2-5 tick interval targeting about five ticks.
func chartTickStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
