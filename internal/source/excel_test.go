package source

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

func ptr(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cellName, &rows[i]); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestImportExcel_GuessesLocalisedHeaders(t *testing.T) {
	buf := workbook(t,
		[]any{"Tarih", "Güncel KM", "Yapılan KM", "Ortalama Tüketim", "Yakıt Fiyatı", "Yakıt Alındı"},
		[]any{"05.01.2024", 12050, 50, "6,5", 40, "Evet"},
		[]any{"06.01.2024", 12050, 0, "", 40, ""},
		[]any{"07.01.2024", 12080, 30, "", 0, ""},
		[]any{"not a date", 1, 1, "", 0, ""},
	)

	result := ImportExcel(buf, "car")
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Logs) != 2 {
		t.Fatalf("Logs = %d, want 2", len(result.Logs))
	}
	if result.Skipped != 1 || result.ParseErrors != 1 {
		t.Errorf("Skipped/ParseErrors = %d/%d, want 1/1", result.Skipped, result.ParseErrors)
	}

	first := result.Logs[0]
	if !first.Date.Equal(day(2024, 1, 5)) {
		t.Errorf("Date = %v, want 2024-01-05", first.Date)
	}
	if c, ok := first.Consumption(); !ok || c != 6.5 {
		t.Errorf("Consumption = %v, %v; want 6.5", c, ok)
	}
	if !first.IsRefuelDay || first.VehicleID != "car" {
		t.Errorf("IsRefuelDay/Vehicle = %v/%q, want true/car", first.IsRefuelDay, first.VehicleID)
	}
	if first.FuelLiters != 3.25 {
		t.Errorf("FuelLiters = %.3f, want 3.25", first.FuelLiters)
	}

	second := result.Logs[1]
	if second.IsRefuelDay {
		t.Error("row without price or refuel mark should not be a refuel day")
	}
	if _, ok := second.Consumption(); ok {
		t.Error("empty consumption cell should be unmeasured")
	}
}

func TestImportExcel_PriceImpliesRefuel(t *testing.T) {
	buf := workbook(t,
		[]any{"Date", "Current KM", "Distance", "Price"},
		[]any{"2024-02-01", 500, 25, 41.5},
	)
	result := ImportExcel(buf, "")
	if result.Err != nil || len(result.Logs) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if !result.Logs[0].IsRefuelDay {
		t.Error("a priced row should be a refuel day")
	}
}

func TestImportExcel_NoDateColumn(t *testing.T) {
	buf := workbook(t, []any{"Foo", "Bar"}, []any{1, 2})
	if result := ImportExcel(buf, ""); result.Err == nil {
		t.Error("expected error for header without a date column")
	}
}

func TestExportExcel_RoundTrip(t *testing.T) {
	logs := []model.LogEntry{
		pipeline.DeriveLog(model.LogEntry{Date: day(2024, 1, 6), Odometer: 12100, Distance: 50, AvgConsumption: ptr(7), FuelPrice: 42, IsRefuelDay: true, Station: "Opet"}),
		pipeline.DeriveLog(model.LogEntry{Date: day(2024, 1, 5), Odometer: 12050, Distance: 50, AvgConsumption: ptr(6), FuelPrice: 40}),
	}
	odo := 12100.0
	purchases := []model.PurchaseEvent{
		{Date: time.Date(2024, 1, 6, 8, 30, 0, 0, time.Local), Liters: 40, PricePerLiter: 42, TotalAmount: 1680, Station: "Opet", Odometer: &odo, IsFullTank: true},
	}

	var buf bytes.Buffer
	if err := ExportExcel(&buf, logs, purchases); err != nil {
		t.Fatalf("ExportExcel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	sheets := f.GetSheetList()
	_ = f.Close()
	if len(sheets) != 3 || sheets[0] != LogsSheet || sheets[1] != PurchasesSheet || sheets[2] != SummarySheet {
		t.Errorf("sheets = %v", sheets)
	}

	result := ImportExcel(bytes.NewReader(buf.Bytes()), "car")
	if result.Err != nil {
		t.Fatalf("ImportExcel: %v", result.Err)
	}
	if len(result.Logs) != 2 || len(result.Purchases) != 1 {
		t.Fatalf("records = %d/%d, want 2/1", len(result.Logs), len(result.Purchases))
	}

	// Exported oldest first
	got := result.Logs[0]
	if !got.Date.Equal(day(2024, 1, 5)) || got.Odometer != 12050 || got.FuelLiters != 3 || got.Cost != 120 {
		t.Errorf("log[0] = %+v", got)
	}
	if got := result.Logs[1]; got.Station != "Opet" || !got.IsRefuelDay {
		t.Errorf("log[1] station/refuel = %q/%v", got.Station, got.IsRefuelDay)
	}

	p := result.Purchases[0]
	if !p.Date.Equal(purchases[0].Date) || p.TotalAmount != 1680 || !p.IsFullTank {
		t.Errorf("purchase = %+v", p)
	}
	if p.Odometer == nil || *p.Odometer != odo {
		t.Errorf("purchase odometer = %v, want %v", p.Odometer, odo)
	}
}

func TestExportJSON_RoundTrip(t *testing.T) {
	due := day(2024, 6, 1)
	logs := []model.LogEntry{
		pipeline.DeriveLog(model.LogEntry{ID: "l1", VehicleID: "car", Date: day(2024, 1, 5), Odometer: 100, Distance: 10, AvgConsumption: ptr(5), FuelPrice: 40}),
	}
	purchases := []model.PurchaseEvent{
		{ID: "p1", VehicleID: "car", Date: time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local), Liters: 10, PricePerLiter: 40, TotalAmount: 400},
	}
	items := []model.MaintenanceItem{
		{ID: "m1", VehicleID: "car", Title: "Oil", IntervalKm: 10000, LastServiceKm: 0, NotifyBeforeKm: 500, DueDate: &due},
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, logs, purchases, items); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	result := ParseJSON(&buf, "")
	if result.Err != nil {
		t.Fatalf("ParseJSON: %v", result.Err)
	}
	if len(result.Logs) != 1 || len(result.Purchases) != 1 || len(result.Maintenance) != 1 {
		t.Fatalf("records = %d/%d/%d, want 1/1/1", len(result.Logs), len(result.Purchases), len(result.Maintenance))
	}
	if l := result.Logs[0]; l.ID != "l1" || l.Cost != logs[0].Cost || !l.Date.Equal(logs[0].Date) {
		t.Errorf("log = %+v", l)
	}
	if p := result.Purchases[0]; p.ID != "p1" || !p.Date.Equal(purchases[0].Date) {
		t.Errorf("purchase = %+v", p)
	}
	if m := result.Maintenance[0]; m.DueDate == nil || !m.DueDate.Equal(due) {
		t.Errorf("maintenance due = %v", m.DueDate)
	}
}
