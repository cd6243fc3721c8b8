// Package cmd - compute command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"order-pricing-api/internal/models"
	"order-pricing-api/internal/pricing"
	"order-pricing-api/internal/services"
)

type computeOptions struct {
	raw      bool
	validate bool
	format   string
	tender   float64
}

func newComputeCmd() *cobra.Command {
	opts := &computeOptions{}

	computeCmd := &cobra.Command{
		Use:   "compute [file]",
		Short: "Compute totals for a JSON array of line items",
		Long: `Read a JSON array of line items from a file, or from stdin when no file
or "-" is given, and print the document totals.

Examples:
  pricecalc compute order.json
  pricecalc compute --format json - < order.json
  pricecalc compute --validate --tender 250 order.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd, args, opts)
		},
	}

	computeCmd.Flags().BoolVar(&opts.raw, "raw", false, "disable line-level discount, tax, excise and fee calculations")
	computeCmd.Flags().BoolVar(&opts.validate, "validate", false, "reject line items that fail strict validation")
	computeCmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text, json)")
	computeCmd.Flags().Float64Var(&opts.tender, "tender", 0, "check a tendered amount against the grand total")

	return computeCmd
}

func runCompute(cmd *cobra.Command, args []string, opts *computeOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unsupported format %q: use text or json", opts.format)
	}

	in := cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open line items: %w", err)
		}
		defer f.Close()
		in = f
	}

	lines, err := readLineItems(in)
	if err != nil {
		return err
	}
	for i := range lines {
		logrus.WithFields(logrus.Fields{
			"line": i + 1,
			"item": lines[i].GetDisplayText(),
		}).Debug("Read line item")
	}

	svc := services.NewPricingService(&services.PricingConfig{
		IncludeLineLevelCalculations: !opts.raw,
		StrictValidation:             opts.validate,
	})

	req := services.CalculateTotalsRequest{LineItems: lines}
	ctx := context.Background()
	out := cmd.OutOrStdout()

	if cmd.Flags().Changed("tender") {
		result, err := svc.CheckTender(ctx, &services.TenderCheckRequest{
			CalculateTotalsRequest: req,
			TenderedAmount:         opts.tender,
		})
		if err != nil {
			return err
		}
		if opts.format == "json" {
			return writeJSON(out, result)
		}
		return writeTenderText(out, len(lines), result)
	}

	result, err := svc.CalculateTotals(ctx, &req)
	if err != nil {
		return err
	}
	if opts.format == "json" {
		if !result.Totals.IsFinite() {
			return services.ErrNonFiniteTotal
		}
		return writeJSON(out, result)
	}
	return writeTotalsText(out, result.LineCount, result.Totals)
}

func readLineItems(r io.Reader) ([]models.LineItem, error) {
	var lines []models.LineItem
	if err := json.NewDecoder(r).Decode(&lines); err != nil {
		return nil, fmt.Errorf("failed to decode line items: %w", err)
	}
	return lines, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTotalsText(w io.Writer, lineCount int, t models.Totals) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	writeTotalsRows(tw, lineCount, t)
	return tw.Flush()
}

func writeTenderText(w io.Writer, lineCount int, r *services.TenderCheckResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	writeTotalsRows(tw, lineCount, r.Totals)
	fmt.Fprintf(tw, "Tendered\t%s\t\n", formatMoney(r.TenderedAmount))
	if r.Sufficient {
		fmt.Fprintf(tw, "Change\t%s\t\n", formatMoney(r.Change))
	} else {
		fmt.Fprintf(tw, "Shortfall\t%s\t\n", formatMoney(r.Shortfall))
	}
	return tw.Flush()
}

func writeTotalsRows(w io.Writer, lineCount int, t models.Totals) {
	fmt.Fprintf(w, "Lines\t%d\t\n", lineCount)
	fmt.Fprintf(w, "Item quantity\t%s\t\n", strconv.FormatFloat(t.ItemQuantityTotal, 'f', -1, 64))
	fmt.Fprintf(w, "Subtotal\t%s\t\n", formatMoney(t.Subtotal))
	fmt.Fprintf(w, "Discount\t%s\t\n", formatMoney(t.DiscountTotal))
	fmt.Fprintf(w, "Net\t%s\t\n", formatMoney(t.NetAmount))
	fmt.Fprintf(w, "Tax\t%s\t\n", formatMoney(t.TaxTotal))
	fmt.Fprintf(w, "Excise\t%s\t\n", formatMoney(t.ExciseTotal))
	fmt.Fprintf(w, "Other fees\t%s\t\n", formatMoney(t.OtherFeeTotal))
	fmt.Fprintf(w, "Surcharges\t%s\t\n", formatMoney(t.SurchargeTotal()))
	fmt.Fprintf(w, "Grand total\t%s\t\n", formatMoney(t.GrandTotal))
}

func formatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return pricing.MoneyDecimal(v).StringFixed(models.MoneyDecimalPlaces)
}
