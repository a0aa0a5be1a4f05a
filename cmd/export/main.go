// Command export downloads the current report data and writes the filtered
// sales table to an xlsx file, without going through the API server.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/dvloznov/sales-dashboard/internal/config"
	"github.com/dvloznov/sales-dashboard/internal/export"
	"github.com/dvloznov/sales-dashboard/internal/gcstore"
	"github.com/dvloznov/sales-dashboard/internal/logger"
	"github.com/dvloznov/sales-dashboard/internal/report"
	"github.com/dvloznov/sales-dashboard/internal/session"
	"github.com/dvloznov/sales-dashboard/internal/source"
)

func main() {
	var (
		out      = flag.String("out", "sales.xlsx", "output file path")
		month    = flag.String("month", "", "filter by month (YYYY-MM)")
		client   = flag.String("client", "", "filter by client code")
		product  = flag.String("product", "", "filter by product code")
		country  = flag.String("country", "", "filter by country")
		region   = flag.String("region", "", "filter by region")
		category = flag.String("category", "", "filter by product category")
		search   = flag.String("search", "", "free-text search over client name and product code")
		sortCol  = flag.String("sort", "date", "sort column")
		dir      = flag.String("dir", "asc", "sort direction (asc or desc)")
		yoy      = flag.Bool("yoy", false, "export the year-over-year report instead of the sales table")
	)
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Bucket == "" {
		log.Fatal().Msg("GCS_BUCKET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := gcstore.New(ctx, cfg.Bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bucket store")
	}
	defer store.Close()

	loader := source.NewLoader(store, cfg.SalesPrefix, cfg.ClientObject, cfg.ProductObject, cfg.AdminObject)
	sessions := session.NewStore(loader)
	if err := sessions.Refresh(ctx); err != nil {
		log.Fatal().Err(err).Msg("Data load failed")
	}
	snap, _ := sessions.Current()

	log.Info().
		Str("file", snap.FileName).
		Int("transactions", len(snap.Sales)).
		Msg("Data loaded")

	var blob []byte
	if *yoy {
		rep := report.YearOverYear(snap.Sales, snap.Index, cfg.YoYEndMonth)
		rows := report.Derive(rep, nil)
		blob, err = export.WriteYoY(report.YoYColumnsFor(rep.PrevYear, rep.CurrYear), rows)
	} else {
		state := report.NewFilterState()
		state.Set(report.FieldMonth, *month)
		state.Set(report.FieldClient, *client)
		state.Set(report.FieldProduct, *product)
		state.Set(report.FieldCountry, *country)
		state.Set(report.FieldRegion, *region)
		state.Set(report.FieldCategory, *category)
		state.Search = *search

		txs := report.Filter(snap.Sales, snap.Index, state)
		direction := report.Asc
		if *dir == string(report.Desc) {
			direction = report.Desc
		}
		txs = report.Sort(txs, snap.Index, *sortCol, direction)

		blob, err = export.WriteTable(report.TableColumns, report.JoinRows(txs, snap.Index))
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build export")
	}

	if err := os.WriteFile(*out, blob, 0o644); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output file")
	}
	log.Info().Str("path", *out).Int("bytes", len(blob)).Msg("Export written")
}
