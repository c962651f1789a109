package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/application/service"
	"github.com/LouisLibre/BorderPOS/internal/config"
	"github.com/LouisLibre/BorderPOS/internal/infrastructure/database"
	"github.com/LouisLibre/BorderPOS/internal/infrastructure/repository"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/handler"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/middleware"
	"github.com/LouisLibre/BorderPOS/pkg/metrics"
	"github.com/LouisLibre/BorderPOS/pkg/printer"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLiteDB(":memory:", &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		App: config.AppConfig{Name: "borderpos"},
		Register: config.RegisterConfig{
			CashierName:         "Ana",
			POSID:               "POS1",
			DefaultExchangeRate: decimal.RequireFromString("20.00"),
			CompletionCountdown: 5 * time.Second,
			IdempotencyTTL:      time.Hour,
		},
		Printer: config.PrinterConfig{Type: printer.TypeNone, StoreName: "BorderPOS"},
	}
	require.NoError(t, database.SeedDefaultData(db, &cfg.Register))

	ticketRepo := repository.NewTicketRepository(db)
	m := metrics.New(cfg.Register.POSID)

	settings := service.NewSettingsService(repository.NewSettingsRepository(db), cfg.Register.DefaultExchangeRate)
	catalog := service.NewCatalogService(repository.NewCatalogRepository(db), nil)
	cart := service.NewCartService(catalog, settings)
	search := service.NewSearchService(catalog, cart)
	printers := service.NewPrinterService(printer.NewNullPrinter(), settings, ticketRepo, m, service.PrinterOptions{
		Type:      cfg.Printer.Type,
		StoreName: cfg.Printer.StoreName,
	})
	sales := service.NewSaleService(ticketRepo, cart, printers, m, cfg.Register.CashierName, cfg.Register.POSID)
	payment := service.NewPaymentService(cart, settings, sales, cfg.Register.CompletionCountdown)

	return Setup(&Handlers{
		Catalog:  handler.NewCatalogHandler(catalog, search, 1<<20),
		Cart:     handler.NewCartHandler(cart),
		Payment:  handler.NewPaymentHandler(payment),
		Settings: handler.NewSettingsHandler(settings),
		Ticket:   handler.NewTicketHandler(service.NewTicketService(ticketRepo), printers),
		Printer:  handler.NewPrinterHandler(printers),
	}, &Deps{
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		DB:              db,
		Metrics:         m,
	})
}

func do(t *testing.T, r http.Handler, method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func amount(t *testing.T, s string) string {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d.StringFixed(2)
}

func importCatalog(t *testing.T, r http.Handler) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/import",
		bytes.NewBufferString("Abarrotes,1001,Tortilla de maiz,24.50\nAbarrotes,1002,Salsa verde,30\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w, _ := do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestSaleFlow(t *testing.T) {
	r := newTestRouter(t)
	importCatalog(t, r)

	w, env := do(t, r, http.MethodGet, "/api/v1/catalog?search=TORT", "")
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]interface{}
	decode(t, env.Data, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "1001", items[0]["sku"])

	w, env = do(t, r, http.MethodPost, "/api/v1/search/submit", `{"term":"tort*2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var submitted struct {
		Added bool   `json:"added"`
		Term  string `json:"term"`
	}
	decode(t, env.Data, &submitted)
	assert.True(t, submitted.Added)
	assert.Empty(t, submitted.Term)

	w, _ = do(t, r, http.MethodPost, "/api/v1/cart/items", `{"sku":"1002"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = do(t, r, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		Total          string `json:"total"`
		ItemCount      int    `json:"item_count"`
		TotalInDollars string `json:"total_in_dollars"`
	}
	decode(t, env.Data, &cart)
	assert.Equal(t, "79.00", amount(t, cart.Total))
	assert.Equal(t, 2, cart.ItemCount)
	assert.Equal(t, "3.95", amount(t, cart.TotalInDollars))

	w, _ = do(t, r, http.MethodPost, "/api/v1/payment/finalize", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/v1/payment", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view struct {
		TotalDue string `json:"total_due"`
		Keypad   string `json:"keypad"`
	}
	decode(t, env.Data, &view)
	assert.Equal(t, "79.00", amount(t, view.TotalDue))
	assert.Equal(t, "79.00", view.Keypad)

	w, _ = do(t, r, http.MethodPost, "/api/v1/payment/tenders", `{"method":"cash","amount":"50"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = do(t, r, http.MethodPost, "/api/v1/payment/finalize", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/payment/tenders", `{"method":"dollars","amount":"2.50"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = do(t, r, http.MethodPost, "/api/v1/payment/finalize", "", middleware.IdempotencyKeyHeader, "sale-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var receipt struct {
		Ticket struct {
			ID            string `json:"id"`
			Change        string `json:"change"`
			PaymentMethod string `json:"payment_method"`
		} `json:"ticket"`
		AutoDismissSeconds int `json:"auto_dismiss_seconds"`
	}
	decode(t, env.Data, &receipt)
	assert.Equal(t, "21.00", amount(t, receipt.Ticket.Change))
	assert.Equal(t, "MIXED", receipt.Ticket.PaymentMethod)
	assert.Equal(t, 5, receipt.AutoDismissSeconds)
	first := w.Body.String()

	replay, _ := do(t, r, http.MethodPost, "/api/v1/payment/finalize", "", middleware.IdempotencyKeyHeader, "sale-1")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.Equal(t, first, replay.Body.String())

	w, env = do(t, r, http.MethodGet, "/api/v1/tickets", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []map[string]interface{} `json:"items"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	decode(t, env.Data, &page)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Pagination.Total)

	w, env = do(t, r, http.MethodGet, "/api/v1/tickets/"+receipt.Ticket.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ticket struct {
		Items []map[string]interface{} `json:"items"`
	}
	decode(t, env.Data, &ticket)
	assert.Len(t, ticket.Items, 2)

	w, _ = do(t, r, http.MethodPost, "/api/v1/tickets/"+receipt.Ticket.ID+"/print", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &cart)
	assert.Zero(t, cart.ItemCount)
}

func TestSaleFlow_LinesWithOverlappingCodes(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/import",
		bytes.NewBufferString("Ferreteria,CODE1,Clavo,5\nFerreteria,CODE11,Tornillo,5\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = do(t, r, http.MethodPost, "/api/v1/cart/items", `{"sku":"CODE1","quantity":"12"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = do(t, r, http.MethodPost, "/api/v1/cart/items", `{"sku":"CODE11","quantity":"2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = do(t, r, http.MethodPost, "/api/v1/payment", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = do(t, r, http.MethodPost, "/api/v1/payment/tenders", `{"method":"cash","amount":"70"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := do(t, r, http.MethodPost, "/api/v1/payment/finalize", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var receipt struct {
		Ticket struct {
			ID string `json:"id"`
		} `json:"ticket"`
	}
	decode(t, env.Data, &receipt)

	w, env = do(t, r, http.MethodGet, "/api/v1/tickets/"+receipt.Ticket.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ticket struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decode(t, env.Data, &ticket)
	require.Len(t, ticket.Items, 2)
	assert.NotEqual(t, ticket.Items[0].ID, ticket.Items[1].ID)
}

func TestCartErrors(t *testing.T) {
	r := newTestRouter(t)
	importCatalog(t, r)

	w, _ := do(t, r, http.MethodPost, "/api/v1/cart/items", `{"sku":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/cart/items", `{"sku":"1001","quantity":"abc"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/cart/items", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPut, "/api/v1/cart/items/1001", `{"quantity":"2"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/cart/items", `{"sku":"1001","quantity":"1,5"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, http.MethodPut, "/api/v1/cart/items/1001", `{"quantity":"2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		Total string `json:"total"`
	}
	decode(t, env.Data, &cart)
	assert.Equal(t, "49.00", amount(t, cart.Total))

	w, _ = do(t, r, http.MethodDelete, "/api/v1/cart/items/1001", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/payment", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExchangeRateSettings(t *testing.T) {
	r := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/v1/settings/exchange-rate", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rate struct {
		Rate string `json:"rate"`
	}
	decode(t, env.Data, &rate)
	assert.Equal(t, "20.00", rate.Rate)

	w, env = do(t, r, http.MethodPut, "/api/v1/settings/exchange-rate", `{"rate":"17.5"}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &rate)
	assert.Equal(t, "17.50", rate.Rate)

	w, env = do(t, r, http.MethodPut, "/api/v1/settings/exchange-rate", `{"rate":"17.555"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	decode(t, env.Data, &rate)
	assert.Equal(t, "17.50", rate.Rate)
}

func TestPrinterSettings(t *testing.T) {
	r := newTestRouter(t)

	w, _ := do(t, r, http.MethodPut, "/api/v1/settings/printer", `{"printer":{"vid":1046,"pid":20497,"product":"TM-T20"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := do(t, r, http.MethodGet, "/api/v1/printer/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Configured bool `json:"configured"`
		Selected   *struct {
			VendorID uint16 `json:"vid"`
		} `json:"selected"`
	}
	decode(t, env.Data, &status)
	assert.False(t, status.Configured)
	require.NotNil(t, status.Selected)
	assert.Equal(t, uint16(1046), status.Selected.VendorID)

	w, _ = do(t, r, http.MethodPut, "/api/v1/settings/printer", `{"printer":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/v1/settings/printer", "")
	assert.Contains(t, w.Body.String(), `"printer":null`)

	w, _ = do(t, r, http.MethodPost, "/api/v1/printer/test", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImportRejectsBadRow(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/import",
		bytes.NewBufferString("category,code,name,price\nAbarrotes,1001,Tortilla,24.50\nAbarrotes,1002,,30\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "line 3")

	w2, env := do(t, r, http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, w2.Code)
	var items []map[string]interface{}
	decode(t, env.Data, &items)
	assert.Len(t, items, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodGet, "/api/v1/cart", "")

	w, _ := do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "borderpos_http_requests_total")
}
