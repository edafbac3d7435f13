package source

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

// Sheet names written by ExportExcel.
const (
	LogsSheet      = "Daily Logs"
	PurchasesSheet = "Fuel Purchases"
	SummarySheet   = "Summary"
)

var logHeaders = []string{
	"Date", "Odometer", "Distance (km)", "Avg Consumption (L/100km)", "Refuel",
	"Full Tank", "Fuel Price", "Station", "Fuel (L)", "Cost", "Cost/km", "Notes",
}

var purchaseHeaders = []string{
	"Date", "Liters", "Price/L", "Total", "Station", "Odometer", "Location", "Full Tank", "Notes",
}

// column identifies a log field recognised in a spreadsheet header.
type column int

const (
	colDate column = iota
	colOdometer
	colDistance
	colConsumption
	colPrice
	colRefuel
	colFullTank
	colStation
	colNotes
)

// headerKeywords maps each field to lower-case fragments that identify its
// header. Fields are matched in order and each column is claimed once.
var headerKeywords = []struct {
	col      column
	keywords []string
}{
	{colDate, []string{"tarih", "date", "zaman"}},
	{colOdometer, []string{"güncel", "guncel", "current", "odo", "sayaç", "sayac"}},
	{colDistance, []string{"yapılan", "yapilan", "distance", "mesafe", "trip"}},
	{colConsumption, []string{"ortalama", "avg", "consumption", "tüketim", "tuketim"}},
	{colPrice, []string{"fiyat", "price", "tutar", "cost"}},
	{colRefuel, []string{"yakıt alındı", "yakit alindi", "refuel", "alındı", "alindi"}},
	{colFullTank, []string{"full", "depo"}},
	{colStation, []string{"station", "istasyon"}},
	{colNotes, []string{"note", "açıklama", "aciklama"}},
}

// mapHeader locates known columns in a header row.
func mapHeader(header []string) map[column]int {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := make(map[column]int)
	claimed := make(map[int]bool)
	for _, hk := range headerKeywords {
		for i, h := range lower {
			if claimed[i] || h == "" {
				continue
			}
			if containsAny(h, hk.keywords) {
				cols[hk.col] = i
				claimed[i] = true
				break
			}
		}
	}
	return cols
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func cell(row []string, idx int, ok bool) string {
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber accepts both decimal points and decimal commas.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "evet", "x", "✓":
		return true
	}
	return false
}

// ImportExcel reads logs from the first sheet of a workbook, guessing
// columns from the header row. Rows without a positive distance are
// skipped. A sheet named like PurchasesSheet is read as purchases.
func ImportExcel(r io.Reader, vehicle string) ParseResult {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ParseResult{Err: fmt.Errorf("opening workbook: %w", err)}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ParseResult{}
	}

	var res ParseResult
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return ParseResult{Err: fmt.Errorf("reading %s: %w", sheets[0], err)}
	}
	if err := importLogRows(rows, vehicle, &res); err != nil {
		return ParseResult{Err: err}
	}

	for _, name := range sheets[1:] {
		if name != PurchasesSheet {
			continue
		}
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return ParseResult{Err: fmt.Errorf("reading %s: %w", name, err)}
		}
		importPurchaseRows(rows, vehicle, &res)
	}
	return res
}

func importLogRows(rows [][]string, vehicle string, res *ParseResult) error {
	if len(rows) == 0 {
		return nil
	}
	cols := mapHeader(rows[0])
	if _, ok := cols[colDate]; !ok {
		return errors.New("source: no date column in header")
	}
	get := func(row []string, c column) string {
		idx, ok := cols[c]
		return cell(row, idx, ok)
	}

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		date, err := ParseDate(get(row, colDate))
		if err != nil {
			res.ParseErrors++
			continue
		}
		distance, _ := parseNumber(get(row, colDistance))
		if distance <= 0 {
			res.Skipped++
			continue
		}
		odo, _ := parseNumber(get(row, colOdometer))
		price, _ := parseNumber(get(row, colPrice))

		e := model.LogEntry{
			VehicleID:   vehicle,
			Date:        clock.StartOfDay(date),
			Odometer:    odo,
			Distance:    distance,
			FuelPrice:   price,
			IsRefuelDay: truthy(get(row, colRefuel)) || price > 0,
			IsFullTank:  truthy(get(row, colFullTank)),
			Station:     get(row, colStation),
			Notes:       get(row, colNotes),
		}
		e.ID = recordID("", "log|", vehicle, "|", e.Date.Format("2006-01-02"), "|", odo)
		if c, ok := parseNumber(get(row, colConsumption)); ok && c > 0 {
			e.AvgConsumption = &c
		}
		res.Logs = append(res.Logs, pipeline.DeriveLog(e))
	}
	return nil
}

func importPurchaseRows(rows [][]string, vehicle string, res *ParseResult) {
	if len(rows) == 0 {
		return
	}
	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}
	get := func(row []string, name string) string {
		i, ok := idx[name]
		return cell(row, i, ok)
	}
	num := func(row []string, name string) float64 {
		v, _ := parseNumber(get(row, name))
		return v
	}

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		raw := RawPurchase{
			Date:          get(row, "Date"),
			Liters:        num(row, "Liters"),
			PricePerLiter: num(row, "Price/L"),
			TotalAmount:   num(row, "Total"),
			Station:       get(row, "Station"),
			Location:      get(row, "Location"),
			IsFullTank:    truthy(get(row, "Full Tank")),
			Notes:         get(row, "Notes"),
		}
		if o, ok := parseNumber(get(row, "Odometer")); ok {
			raw.Odometer = &o
		}
		p, err := toPurchase(raw, vehicle)
		if err != nil {
			res.Skipped++
			continue
		}
		res.Purchases = append(res.Purchases, p)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ExportExcel writes a workbook with a logs sheet, a purchases sheet and a
// summary of the headline totals.
func ExportExcel(w io.Writer, logs []model.LogEntry, purchases []model.PurchaseEvent) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", LogsSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	logRows := make([][]any, 0, len(logs))
	for _, l := range pipeline.SortLogs(logs) {
		var consumption any
		if c, ok := l.Consumption(); ok {
			consumption = c
		}
		logRows = append(logRows, []any{
			l.Date.Format("2006-01-02"), l.Odometer, l.Distance, consumption, yesNo(l.IsRefuelDay),
			yesNo(l.IsFullTank), l.FuelPrice, l.Station, l.FuelLiters, l.Cost, l.CostPerKm, l.Notes,
		})
	}
	if err := writeSheet(f, LogsSheet, logHeaders, logRows, bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(PurchasesSheet); err != nil {
		return err
	}
	purchaseRows := make([][]any, 0, len(purchases))
	for _, p := range pipeline.SortPurchases(purchases) {
		var odo any
		if p.Odometer != nil {
			odo = *p.Odometer
		}
		purchaseRows = append(purchaseRows, []any{
			p.Date.Format(time.RFC3339), p.Liters, p.PricePerLiter, p.TotalAmount,
			p.Station, odo, p.Location, yesNo(p.IsFullTank), p.Notes,
		})
	}
	if err := writeSheet(f, PurchasesSheet, purchaseHeaders, purchaseRows, bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	d := pipeline.Dashboard(logs, purchases, 0)
	summary := [][]any{
		{"Logs", d.LogCount},
		{"Purchases", d.PurchaseCount},
		{"Total Distance (km)", d.TotalDistance},
		{"Total Cost", d.TotalCost},
		{"Avg Cost/km", d.AvgCostPerKm},
		{"Avg Consumption (L/100km)", d.AvgConsumption},
		{"Purchased Liters", d.TotalLiters},
		{"Weighted Avg Price", d.WeightedAvgPrice},
		{"Last Fuel Price", d.LastFuelPrice},
	}
	if err := writeSheet(f, SummarySheet, []string{"Metric", "Value"}, summary, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
		return err
	}

	for i := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellName, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}
