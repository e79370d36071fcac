package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cartcompare/backend/internal/app"
	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/logging"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [terms...]",
	Short: "Price a shopping list across all stores",
	Example: `  cartctl compare "leche entera 1 l" "arroz largo fino" --region CABA
  cartctl compare yerba --config ./config.yaml --summary`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		region, _ := cmd.Flags().GetString("region")
		summary, _ := cmd.Flags().GetBool("summary")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := logging.New(logging.Options{
			Level:  logLevel,
			Format: cfg.Log.Format,
		}, os.Stderr)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		stack, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer stack.Close()

		result, err := stack.Service.CompareProducts(ctx, args, region)
		if err != nil {
			return fmt.Errorf("compare: %w", err)
		}

		if summary {
			return printSummary(cmd.OutOrStdout(), result)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	compareCmd.Flags().StringP("region", "r", "", "Region or city used to pick participating stores")
	compareCmd.Flags().Bool("summary", false, "Print one line per store instead of JSON")
	rootCmd.AddCommand(compareCmd)
}

func printJSON(w io.Writer, result *domain.ShoppingPlanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// printSummary writes "store  matched/searched  total  cheapest" lines in rank order
func printSummary(w io.Writer, result *domain.ShoppingPlanResult) error {
	for i, cart := range result.StoreCarts {
		if _, err := fmt.Fprintf(w, "%d. %-20s %d/%d  $%.2f  cheapest in %d\n",
			i+1, cart.StoreName, len(cart.Items), cart.TotalSearched, cart.TotalPrice, cart.CheapestCount); err != nil {
			return err
		}
	}
	if len(result.NotFound) > 0 {
		if _, err := fmt.Fprintf(w, "not found: %v\n", result.NotFound); err != nil {
			return err
		}
	}
	return nil
}
