package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/source"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the logbook to Excel or a JSON backup",
	Long: "Export logs and purchases as an .xlsx workbook, or the whole logbook\n" +
		"(including maintenance items) as a JSON backup that `fuellog import` reads back.",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "", "xlsx or json (default from --out extension, else json)")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func exportFormat() (string, error) {
	format := strings.ToLower(flagExportFormat)
	if format == "" {
		format = "json"
		if strings.EqualFold(filepath.Ext(flagExportOut), ".xlsx") {
			format = "xlsx"
		}
	}
	switch format {
	case "json", "xlsx":
		return format, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want xlsx or json)", flagExportFormat)
	}
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := exportFormat()
	if err != nil {
		return err
	}
	if format == "xlsx" && flagExportOut == "" {
		return errors.New("xlsx export needs --out")
	}

	e, lb, err := loadLogbook(cmd.Context())
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if flagExportOut != "" {
		f, err := os.Create(flagExportOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOut, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "xlsx":
		err = source.ExportExcel(w, lb.Logs, lb.Purchases)
	default:
		err = source.ExportJSON(w, lb.Logs, lb.Purchases, lb.Maintenance)
	}
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"format":      format,
		"logs":        len(lb.Logs),
		"purchases":   len(lb.Purchases),
		"maintenance": len(lb.Maintenance),
	}).Info("logbook exported")
	if flagExportOut != "" && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %d logs and %d purchases to %s\n", len(lb.Logs), len(lb.Purchases), flagExportOut)
	}
	return nil
}
