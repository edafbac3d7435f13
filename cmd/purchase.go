package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/source"
)

var (
	flagBuyDate     string
	flagBuyLiters   float64
	flagBuyPrice    float64
	flagBuyTotal    float64
	flagBuyStation  string
	flagBuyOdometer float64
	flagBuyLocation string
	flagBuyFull     bool
	flagBuyNotes    string
)

var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "Manage fuel purchases",
}

var purchaseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a fuel purchase",
	Long:  "Record a fuel purchase. Any two of --liters, --price and --total are enough.",
	RunE:  runPurchaseAdd,
}

func init() {
	f := purchaseAddCmd.Flags()
	f.StringVar(&flagBuyDate, "date", "", "Purchase date and time (default now)")
	f.Float64Var(&flagBuyLiters, "liters", 0, "Liters bought")
	f.Float64Var(&flagBuyPrice, "price", 0, "Price per liter")
	f.Float64Var(&flagBuyTotal, "total", 0, "Total amount paid")
	f.StringVar(&flagBuyStation, "station", "", "Fuel station")
	f.Float64Var(&flagBuyOdometer, "odometer", 0, "Odometer reading at the pump")
	f.StringVar(&flagBuyLocation, "location", "", "Location")
	f.BoolVar(&flagBuyFull, "full", false, "The tank was filled up")
	f.StringVar(&flagBuyNotes, "notes", "", "Free-form notes")

	purchaseCmd.AddCommand(purchaseAddCmd)
	rootCmd.AddCommand(purchaseCmd)
}

// completePurchase fills the missing one of liters, price and total.
func completePurchase(liters, price, total float64) (float64, float64, float64) {
	switch {
	case liters > 0 && price > 0 && total <= 0:
		total = liters * price
	case liters > 0 && total > 0 && price <= 0:
		price = total / liters
	case price > 0 && total > 0 && liters <= 0:
		liters = total / price
	}
	return liters, price, total
}

func runPurchaseAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := loadEnv()
	if err != nil {
		return err
	}

	var date time.Time
	if date, err = entryDate(flagBuyDate, e.now()); err != nil {
		return err
	}

	liters, price, total := completePurchase(flagBuyLiters, flagBuyPrice, flagBuyTotal)
	p := model.PurchaseEvent{
		ID:            uuid.NewString(),
		VehicleID:     flagVehicle,
		Date:          date,
		Liters:        liters,
		PricePerLiter: price,
		TotalAmount:   total,
		Station:       flagBuyStation,
		Location:      flagBuyLocation,
		IsFullTank:    flagBuyFull,
		Notes:         flagBuyNotes,
	}
	if flagBuyOdometer > 0 {
		odo := flagBuyOdometer
		p.Odometer = &odo
	}
	if err := source.ValidatePurchase(p); err != nil {
		return fmt.Errorf("invalid purchase: %w", err)
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SavePurchase(ctx, p); err != nil {
		return fmt.Errorf("saving purchase: %w", err)
	}

	cur := e.currency()
	fmt.Printf("\n  Bought %s at %s  (%s)\n",
		cli.FormatLiters(p.Liters), cli.FormatPrice(p.PricePerLiter, cur), cli.FormatMoney(p.TotalAmount, cur))

	lb, err := st.LoadLogbook(ctx, flagVehicle)
	if err != nil {
		return fmt.Errorf("loading logbook: %w", err)
	}
	out, err := e.achievements(st).RecordPurchase(ctx, lb.Logs, lb.Purchases)
	if err != nil {
		return err
	}
	printOutcome(out)
	return nil
}
