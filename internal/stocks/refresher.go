package stocks

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/storage"
)

// PriceGetter is the slice of the quote client the refresher needs.
type PriceGetter interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Refresher periodically revalues every investment from current market
// prices: current_value = price * shares_bought.
type Refresher struct {
	store  storage.Store
	prices PriceGetter
	cron   *cron.Cron
}

// NewRefresher creates a refresher over the given store and price source.
func NewRefresher(store storage.Store, prices PriceGetter) *Refresher {
	return &Refresher{
		store:  store,
		prices: prices,
		cron:   cron.New(),
	}
}

// Start schedules the refresh on the given cron spec (e.g. "0 * * * *" for
// hourly) and runs one refresh immediately in the background.
func (r *Refresher) Start(spec string) error {
	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return err
	}
	r.cron.Start()
	go r.refresh()

	slog.Info("Investment price refresher started", "schedule", spec)
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	investments, err := r.store.ListInvestments(ctx)
	if err != nil {
		slog.Error("Price refresh failed to list investments", "error", err)
		return
	}

	updated := 0
	for _, investment := range investments {
		price, err := r.prices.GetPrice(ctx, investment.StockSymbol)
		if err != nil {
			slog.Warn("Price refresh skipped symbol",
				"symbol", investment.StockSymbol, "error", err)
			continue
		}

		value := price.Mul(investment.SharesBought)
		if err := r.store.UpdateInvestmentValue(ctx, investment.ID, value); err != nil {
			slog.Error("Price refresh failed to update investment",
				"investment_id", investment.ID, "error", err)
			continue
		}
		updated++
	}

	if updated > 0 {
		slog.Info("Investment values refreshed", "updated", updated, "total", len(investments))
	}
}
