package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fuellog/internal/model"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₺0.00"},
		{42.5, "₺42.50"},
		{1234.4, "₺1,234"},
		{-12, "-₺12.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in, "₺"); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatKmAndLiters(t *testing.T) {
	if got := FormatKm(12345.6); got != "12,346 km" {
		t.Errorf("FormatKm = %q", got)
	}
	if got := FormatKm(42.25); got != "42.2 km" && got != "42.3 km" {
		t.Errorf("FormatKm = %q", got)
	}
	if got := FormatLiters(40); got != "40 L" {
		t.Errorf("FormatLiters = %q, want 40 L", got)
	}
	if got := FormatConsumption(0); got != "-" {
		t.Errorf("FormatConsumption(0) = %q, want -", got)
	}
}

func TestFormatDays(t *testing.T) {
	cases := map[int]string{0: "today", 1: "tomorrow", -1: "yesterday", 5: "in 5 days", -3: "3 days ago"}
	for in, want := range cases {
		if got := FormatDays(in); got != want {
			t.Errorf("FormatDays(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	if got := FormatAgo(now.Add(-72*time.Hour), now); got != "3 days ago" {
		t.Errorf("FormatAgo = %q, want 3 days ago", got)
	}
}

func TestRenderTable_AlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Station", "Price"},
		Rows: [][]string{
			{"Opet", "₺42.50"},
			{"---"},
			{"Shell", "₺1,234"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "₺42.50") {
		t.Error("missing row value")
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 50, 100}); got != "▁▄█" {
		t.Errorf("RenderSparkline = %q, want ▁▄█", got)
	}
	if got := RenderSparkline([]float64{-5, 0}); got != "▁▁" {
		t.Errorf("RenderSparkline negatives = %q, want ▁▁", got)
	}
	if RenderSparkline(nil) != "" {
		t.Error("empty sparkline should be empty")
	}
}

func TestRenderTrend(t *testing.T) {
	r := model.TrendResult{Field: model.FieldCost, PercentDelta: -12.5, Direction: model.DirectionDown}
	if got := RenderTrend(r); !strings.Contains(got, "↓ -12.5%") {
		t.Errorf("RenderTrend = %q", got)
	}
}

func TestFormatTrendValue(t *testing.T) {
	if got := FormatTrendValue(model.FieldCostPerKm, 2.5, "$"); got != "$2.50/km" {
		t.Errorf("FormatTrendValue = %q", got)
	}
	if got := FormatTrendValue(model.FieldEntries, 7, "$"); got != "7" {
		t.Errorf("FormatTrendValue entries = %q", got)
	}
}

func TestRenderChallenge(t *testing.T) {
	c := model.Challenge{Title: "Active Driver", Description: "Add 5 entries this week.", Target: 5, Progress: 2, XPReward: 150}
	if got := RenderChallenge(c); !strings.Contains(got, "2/5") || !strings.Contains(got, "+150 XP") {
		t.Errorf("RenderChallenge open = %q", got)
	}
	done := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	c.CompletedAt = &done
	if got := RenderChallenge(c); strings.Contains(got, "2/5") || !strings.Contains(got, "● Active Driver") {
		t.Errorf("RenderChallenge completed = %q", got)
	}
}
