package stocks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/models"
	"github.com/splitvest/splitvest/internal/storage"
	"github.com/splitvest/splitvest/internal/storage/sqlite"
)

func newQuoteServer(t *testing.T, prices map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/price" {
			http.NotFound(w, r)
			return
		}
		price, ok := prices[r.URL.Query().Get("symbol")]
		if !ok {
			w.Write([]byte(`{"code":404,"message":"symbol not found"}`))
			return
		}
		w.Write([]byte(`{"price":"` + price + `"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientGetPrice(t *testing.T) {
	server := newQuoteServer(t, map[string]string{"AAPL": "187.30"})
	client := NewClient(server.URL, "test-key")

	price, err := client.GetPrice(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetPrice failed: %v", err)
	}
	want, _ := decimal.NewFromString("187.30")
	if !price.Equal(want) {
		t.Errorf("price = %s, want 187.30", price)
	}

	_, err = client.GetPrice(context.Background(), "NOPE")
	if !errors.Is(err, ErrPriceUnavailable) {
		t.Errorf("error = %v, want ErrPriceUnavailable", err)
	}
}

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitvest-stocks-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestRefresherUpdatesValues(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:    "Stock Club",
		Kind:    models.GroupInvestment,
		AdminID: "alice",
		Members: []models.UserID{"alice", "bob"},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	apple := &models.Investment{
		GroupID:       group.ID,
		StockSymbol:   "AAPL",
		TotalInvested: mustDec(t, "200"),
		SharesBought:  mustDec(t, "2"),
	}
	if err := store.CreateInvestment(ctx, apple); err != nil {
		t.Fatalf("CreateInvestment failed: %v", err)
	}
	unknown := &models.Investment{
		GroupID:       group.ID,
		StockSymbol:   "NOPE",
		TotalInvested: mustDec(t, "50"),
		SharesBought:  mustDec(t, "1"),
	}
	if err := store.CreateInvestment(ctx, unknown); err != nil {
		t.Fatalf("CreateInvestment failed: %v", err)
	}

	server := newQuoteServer(t, map[string]string{"AAPL": "110.50"})
	refresher := NewRefresher(store, NewClient(server.URL, "test-key"))
	refresher.refresh()

	got, err := store.GetInvestment(ctx, apple.ID)
	if err != nil {
		t.Fatalf("GetInvestment failed: %v", err)
	}
	// 110.50 * 2 shares.
	if !got.CurrentValue.Equal(mustDec(t, "221")) {
		t.Errorf("current value = %s, want 221", got.CurrentValue)
	}

	// The symbol without a quote keeps its previous value.
	got, err = store.GetInvestment(ctx, unknown.ID)
	if err != nil {
		t.Fatalf("GetInvestment failed: %v", err)
	}
	if !got.CurrentValue.IsZero() {
		t.Errorf("current value = %s, want 0 for unknown symbol", got.CurrentValue)
	}
}
