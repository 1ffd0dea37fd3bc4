// toya-export dumps the receipt collection to CSV, JSON or XLSX without
// going through the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"toya/internal/backend"
	"toya/internal/config"
	"toya/internal/export"
	"toya/internal/stats"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	var (
		backendFlag = flag.String("backend", cfg.DataBackend, "data backend (memory|sqlite)")
		dbPath      = flag.String("db", cfg.SQLiteDBPath, "sqlite database path")
		format      = flag.String("format", "csv", "output format (csv|json|xlsx)")
		out         = flag.String("out", "", "output file (default stdout)")
		start       = flag.String("start", "", "period start YYYY-MM-DD (default 30 days ago)")
		end         = flag.String("end", "", "period end YYYY-MM-DD (default today)")
		class       = flag.String("class", "", "restrict to one class/grade")
	)
	flag.Parse()

	if *start == "" || *end == "" {
		now := time.Now()
		*end = now.Format("2006-01-02")
		*start = now.AddDate(0, 0, -30).Format("2006-01-02")
	}

	if err := run(*backendFlag, *dbPath, *format, *out, stats.PeriodFilter{
		Start:      *start,
		End:        *end,
		ClassGrade: *class,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "toya-export:", err)
		os.Exit(1)
	}
}

func run(backendName, dbPath, format, out string, filter stats.PeriodFilter) error {
	factory := backend.NewFactory(slog.Default())
	result, err := factory.CreateStore(backend.Config{
		Type:         backend.Type(backendName),
		SQLiteDBPath: dbPath,
	})
	if err != nil {
		return err
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}
	store := result.Store

	ctx := context.Background()
	receipts, err := store.AllReceipts(ctx)
	if err != nil {
		return err
	}
	filtered := stats.FilteredReceipts(receipts, filter)

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "csv":
		data, err := export.ReceiptsCSV(filtered)
		if err != nil {
			return err
		}
		_, err = w.WriteString(data)
		return err
	case "json":
		pairs, err := store.LoadSettings(ctx)
		if err != nil {
			return err
		}
		data, err := export.MarshalBackup(export.NewBackup(pairs, filtered))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "xlsx":
		report, err := stats.PeriodTotals(receipts, filter)
		if err != nil {
			return err
		}
		return export.WriteReportXLSX(w, report, filtered)
	default:
		return fmt.Errorf("unknown format %q (want csv, json or xlsx)", format)
	}
}
