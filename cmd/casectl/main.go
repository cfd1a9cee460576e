// Command casectl drives the storefront API from a terminal: it waits for an
// order's payment like the thank-you page does, and runs admin operations.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"caseshop/internal/client"
	"caseshop/internal/domain"
	"caseshop/internal/infra/mailer"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		token   string
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:          "casectl",
		Short:        "Operate the caseshop storefront",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "url", envOr("CASESHOP_URL", "http://localhost:8080"), "storefront base URL")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("CASESHOP_TOKEN"), "session token")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "per-request timeout")

	newClient := func() *client.Client {
		return client.New(baseURL, token, timeout)
	}

	root.AddCommand(
		awaitPaymentCmd(newClient),
		setStatusCmd(newClient),
		dashboardCmd(newClient),
	)
	return root
}

func awaitPaymentCmd(newClient func() *client.Client) *cobra.Command {
	var (
		interval time.Duration
		attempts int
	)
	cmd := &cobra.Command{
		Use:   "await-payment ORDER_ID",
		Short: "Poll until an order is paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			c.PollInterval = interval
			c.MaxAttempts = attempts

			order, err := c.AwaitPayment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %s paid: %s (%s)\n", order.ID, mailer.FormatPrice(order.Amount), order.Status)
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", client.DefaultPollInterval, "delay between attempts")
	cmd.Flags().IntVar(&attempts, "attempts", client.DefaultMaxAttempts, "maximum attempts")
	return cmd
}

func setStatusCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status ORDER_ID STATUS",
		Short: "Change an order's fulfilment status (awaiting_shipment, shipped, fulfilled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			order, err := newClient().SetOrderStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %s is now %s\n", order.ID, order.Status)
			return nil
		},
	}
}

func dashboardCmd(newClient func() *client.Client) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show recent paid orders and revenue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newClient().Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}

			fmt.Fprintf(out, "last week:  %s of %s\n", mailer.FormatPrice(d.LastWeekSum), mailer.FormatPrice(d.WeeklyGoal))
			fmt.Fprintf(out, "last month: %s of %s\n", mailer.FormatPrice(d.LastMonthSum), mailer.FormatPrice(d.MonthlyGoal))
			for _, o := range d.Orders {
				email := ""
				if o.User != nil {
					email = o.User.Email
				}
				fmt.Fprintf(out, "%s  %-18s  %-24s  %s\n", o.CreatedAt.Format(time.DateOnly), o.Status, email, mailer.FormatPrice(o.Amount))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

