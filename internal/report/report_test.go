package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

func TestRender(t *testing.T) {
	c := 6.5
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	in := Input{
		Title:    "Clio report",
		Currency: "₺",
		Logs: []model.LogEntry{
			pipeline.DeriveLog(model.LogEntry{Date: day, Distance: 40, AvgConsumption: &c, FuelPrice: 42}),
		},
		Purchases: []model.PurchaseEvent{
			{Date: day.Add(9 * time.Hour), Liters: 30, PricePerLiter: 42, TotalAmount: 1260, Station: "Opet"},
		},
		Window: pipeline.TrailingDays(day.AddDate(0, 0, 1), 7),
		Year:   2024,
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, in))

	html := buf.String()
	assert.Contains(t, html, "<title>Clio report</title>")
	assert.Contains(t, html, "Daily Activity")
	assert.Contains(t, html, "Monthly Spend")
	assert.Contains(t, html, "Opet")
}

func TestRender_Empty(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Input{Title: "empty", Window: pipeline.TrailingDays(now, 7), Year: 2024}))
	assert.NotEmpty(t, buf.String())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, round2(1.2351))
	assert.Equal(t, 0.0, round2(0))
}
