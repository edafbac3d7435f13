package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		peak float64
		want float64
	}{
		{0, 1},
		{5, 1},
		{12, 2},
		{40, 5},
		{100, 20},
		{1800, 500},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.peak); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.peak, got, tt.want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.5, "0.50"},
		{40, "40"},
		{2000, "2k"},
		{2500, "2.5k"},
		{3000000, "3M"},
	}
	for _, tt := range tests {
		if got := formatChartLabel(tt.v); got != tt.want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, "#fff"); got != "" {
		t.Errorf("Sparkline(nil) = %q, want empty", got)
	}
	got := Sparkline([]float64{0, 4, 8}, "#fff")
	if !strings.Contains(got, "▁") || !strings.Contains(got, "█") {
		t.Errorf("Sparkline missing low or high block: %q", got)
	}
	if w := lipgloss.Width(got); w != 3 {
		t.Errorf("Sparkline width = %d, want 3", w)
	}
}

func TestBarChartSmallFallsBackToSparkline(t *testing.T) {
	got := BarChart(Series{Values: []float64{1, 2, 3}, Color: "#fff"}, 10, 2)
	if strings.Contains(got, "\n") {
		t.Errorf("small chart should be a single line, got %q", got)
	}
}

func TestBarChartLabels(t *testing.T) {
	got := BarChart(Series{
		Values: []float64{120, 340, 80},
		Labels: []string{"Jan", "Feb", "Mar"},
		Color:  "#fff",
	}, 40, 8)
	lines := strings.Split(got, "\n")
	last := lines[len(lines)-1]
	for _, lbl := range []string{"Jan", "Feb", "Mar"} {
		if !strings.Contains(last, lbl) {
			t.Errorf("x-axis %q missing label %s", last, lbl)
		}
	}
	if !strings.Contains(got, "└") {
		t.Error("chart has no x-axis")
	}
}

func TestXAxisLabelsSkipsOverlap(t *testing.T) {
	got := xAxisLabels([]string{"2024-01", "2024-02", "2024-03"}, 3, 9)
	if got != "2024-01" {
		t.Errorf("xAxisLabels = %q, want only the first label", got)
	}
}
