package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vietddude/boxoffice/internal/core/config"
	"github.com/vietddude/boxoffice/internal/core/domain"
	"github.com/vietddude/boxoffice/internal/infra/storage/postgres"
)

var historyCmd = &cobra.Command{
	Use:   "history [principal]",
	Short: "List locally recorded submissions and purchases for a principal",
	Args:  cobra.ExactArgs(1),
	Run:   runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	principal, err := domain.ParsePrincipal(args[0])
	if err != nil {
		fmt.Printf("Invalid principal: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		fmt.Println("No database configured; receipts are kept in memory only while the coordinator runs")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	receipts, err := postgres.NewReceiptRepo(db).ListByPrincipal(ctx, principal)
	if err != nil {
		slog.Error("Failed to list receipts", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "KIND\tEVENT\tTICKET\tAMOUNT\tWHEN")

	for _, r := range receipts {
		ticket := "-"
		if r.TicketID != 0 {
			ticket = fmt.Sprintf("%d", r.TicketID)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			r.Kind, r.EventID, ticket,
			domain.FormatPrice(r.AmountE8s),
			r.CreatedAt.Format(time.RFC3339))
	}
	_ = w.Flush()
}
