// Package report renders the logbook as a standalone HTML page of charts.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

const (
	chartWidth  = "100%"
	chartHeight = "420px"

	colorDistance = "#4385BE"
	colorCost     = "#D14D41"
	colorSpend    = "#DA702C"
	colorFuel     = "#879A39"
	colorPrice    = "#8B7EC8"
)

// Input is everything one report covers.
type Input struct {
	Title     string
	Currency  string
	Logs      []model.LogEntry
	Purchases []model.PurchaseEvent
	Window    model.Window // daily charts
	Year      int          // monthly chart
}

// Render writes the HTML report to w.
func Render(w io.Writer, in Input) error {
	page := components.NewPage()
	page.PageTitle = in.Title
	page.AddCharts(
		dailyChart(in),
		monthlyChart(in),
		consumptionChart(in),
		stationChart(in),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func initOpts() opts.Initialization {
	return opts.Initialization{Width: chartWidth, Height: chartHeight}
}

func title(t, sub string) opts.Title {
	return opts.Title{Title: t, Subtitle: sub, Left: "center"}
}

func legend() opts.Legend {
	return opts.Legend{Show: opts.Bool(true), Top: "bottom"}
}

// dailyChart plots distance and cost per day, oldest first.
func dailyChart(in Input) *charts.Bar {
	days := pipeline.AggregateDays(in.Logs, in.Purchases, in.Window)

	labels := make([]string, len(days))
	distance := make([]opts.BarData, len(days))
	cost := make([]opts.BarData, len(days))
	for i := range days {
		d := days[len(days)-1-i]
		labels[i] = d.Date.Format("Jan 2")
		distance[i] = opts.BarData{Value: round2(d.Distance)}
		cost[i] = opts.BarData{Value: round2(d.Cost)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(title("Daily Activity", windowLabel(in.Window))),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(legend()),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)
	bar.SetXAxis(labels).
		AddSeries("Distance (km)", distance, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorDistance})).
		AddSeries("Cost ("+in.Currency+")", cost, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorCost}))
	return bar
}

// monthlyChart compares log cost with purchase spend per month.
func monthlyChart(in Input) *charts.Bar {
	months := pipeline.AggregateMonths(in.Logs, in.Purchases, in.Year)

	labels := make([]string, len(months))
	cost := make([]opts.BarData, len(months))
	spent := make([]opts.BarData, len(months))
	for i, m := range months {
		labels[i] = m.Month.Format("Jan")
		cost[i] = opts.BarData{Value: round2(m.Cost)}
		spent[i] = opts.BarData{Value: round2(m.Spent)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(title("Monthly Spend", fmt.Sprintf("%d", in.Year))),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(legend()),
	)
	bar.SetXAxis(labels).
		AddSeries("Log cost", cost, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorCost})).
		AddSeries("Purchases", spent, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorSpend}))
	return bar
}

// consumptionChart plots every measured consumption reading.
func consumptionChart(in Input) *charts.Line {
	var labels []string
	var values []opts.LineData
	for _, l := range pipeline.SortLogs(pipeline.InWindow(in.Logs, model.LogEntry.When, in.Window)) {
		c, ok := l.Consumption()
		if !ok {
			continue
		}
		labels = append(labels, l.Date.Format("Jan 2"))
		values = append(values, opts.LineData{Value: round2(c)})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(title("Consumption", "L/100km, measured days only")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "L/100km", Scale: opts.Bool(true)}),
	)
	line.SetXAxis(labels).
		AddSeries("Consumption", values,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorFuel}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: 2}),
		)
	return line
}

// stationChart ranks stations by average price paid.
func stationChart(in Input) *charts.Bar {
	stations := pipeline.AggregateStations(in.Purchases)

	labels := make([]string, len(stations))
	avg := make([]opts.BarData, len(stations))
	for i, s := range stations {
		labels[i] = s.Station
		avg[i] = opts.BarData{Value: round2(s.AvgPrice)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(title("Stations", "average price per liter")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("Avg price", avg, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorPrice}))
	return bar
}

func windowLabel(w model.Window) string {
	last := w.End.Add(-time.Nanosecond)
	return w.Start.Format("Jan 2, 2006") + " - " + last.Format("Jan 2, 2006")
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
