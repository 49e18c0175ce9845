package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nacho-herrera/go-cocos/internal/adapters/rest"
	"github.com/nacho-herrera/go-cocos/internal/domain"
)

// newTestBroker wires a BrokerService against the given handler with a
// pre-authenticated session.
func newTestBroker(t *testing.T, handler http.HandlerFunc) (*BrokerService, func()) {
	t.Helper()

	server := httptest.NewServer(handler)
	client := rest.NewClient(rest.Options{BaseURL: server.URL, Logger: zerolog.Nop()})
	sessions := &stubSessions{session: domain.Session{Token: "session-token", AccountID: "10425"}}

	return NewBrokerService(NewDispatcher(client, sessions, "")), server.Close
}

func TestSubmitBuyOrderChecksBuyingPower(t *testing.T) {
	const longTicker = "GGAL-0003-C-CT-ARS"

	var submitted bool
	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/markets/tickers/search":
			assert.Equal(t, "GGAL", r.URL.Query().Get("q"))
			_, _ = fmt.Fprintf(w, `[{"instrument_subtypes":[{"market_data":[{"long_ticker":"%s","instrument_code":""}]}]}]`, longTicker)
		case "/api/v2/orders/buying-power":
			_, _ = fmt.Fprint(w, `{"48hs":{"ars":50000},"CI":{"ars":100}}`)
		case "/api/v2/orders":
			require.Equal(t, http.MethodPost, r.Method)
			submitted = true
			var body map[string]string
			require.NoError(t, decodeJSONBody(r, &body))
			assert.Equal(t, "LIMIT", body["type"])
			assert.Equal(t, "BUY", body["side"])
			assert.Equal(t, longTicker, body["long_ticker"])
			_, _ = fmt.Fprint(w, `{"Orden":"123"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer closeServer()

	raw, err := broker.SubmitBuyOrder(context.Background(), OrderTicket{
		LongTicker: longTicker,
		Quantity:   "10",
		Price:      "4500",
	})
	require.NoError(t, err)
	assert.True(t, submitted)
	assert.JSONEq(t, `{"Orden":"123"}`, string(raw))
}

func TestSubmitBuyOrderInsufficientFunds(t *testing.T) {
	const longTicker = "GGAL-0003-C-CT-ARS"

	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/markets/tickers/search":
			_, _ = fmt.Fprintf(w, `[{"instrument_subtypes":[{"market_data":[{"long_ticker":"%s"}]}]}]`, longTicker)
		case "/api/v2/orders/buying-power":
			_, _ = fmt.Fprint(w, `{"48hs":{"ars":1000}}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer closeServer()

	_, err := broker.SubmitBuyOrder(context.Background(), OrderTicket{
		LongTicker: longTicker,
		Quantity:   "10",
		Price:      "4500",
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestSubmitBuyOrderAppliesPriceFactor(t *testing.T) {
	// Bonds quote per 100 nominals: 1000 nominals at price 50 with factor
	// 100 cost 500, not 50000.
	const longTicker = "AL30-0003-C-CT-ARS"

	var submitted bool
	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/markets/tickers/search":
			_, _ = fmt.Fprintf(w, `[{"instrument_subtypes":[{"market_data":[{"long_ticker":"%s","instrument_code":"AL30"}]}]}]`, longTicker)
		case "/api/v1/markets/tickers/AL30":
			assert.Equal(t, "C", r.URL.Query().Get("segment"))
			_, _ = fmt.Fprintf(w, `[{"long_ticker":"%s","price_factor":100}]`, longTicker)
		case "/api/v2/orders/buying-power":
			_, _ = fmt.Fprint(w, `{"48hs":{"ars":600}}`)
		case "/api/v2/orders":
			submitted = true
			_, _ = fmt.Fprint(w, `{"Orden":"124"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer closeServer()

	_, err := broker.SubmitBuyOrder(context.Background(), OrderTicket{
		LongTicker: longTicker,
		Quantity:   "1000",
		Price:      "50",
	})
	require.NoError(t, err)
	assert.True(t, submitted)
}

func TestSubmitSellOrderChecksHoldings(t *testing.T) {
	const longTicker = "GGAL-0003-C-CT-ARS"

	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/orders/selling-power/":
			assert.Equal(t, longTicker, r.URL.Query().Get("long_ticker"))
			_, _ = fmt.Fprint(w, `{"48hs":5}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer closeServer()

	_, err := broker.SubmitSellOrder(context.Background(), OrderTicket{
		LongTicker: longTicker,
		Quantity:   "10",
		Price:      "4500",
	})
	assert.ErrorIs(t, err, ErrInsufficientHoldings)
}

func TestSubmitSellOrderSendsMarketType(t *testing.T) {
	const longTicker = "GGAL-0003-C-CT-ARS"

	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/orders/selling-power/":
			_, _ = fmt.Fprint(w, `{"48hs":50}`)
		case "/api/v2/orders":
			var body map[string]string
			require.NoError(t, decodeJSONBody(r, &body))
			assert.Equal(t, "MARKET", body["type"])
			assert.Equal(t, "SELL", body["side"])
			_, _ = fmt.Fprint(w, `{"Orden":"125"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer closeServer()

	_, err := broker.SubmitSellOrder(context.Background(), OrderTicket{
		LongTicker: longTicker,
		Quantity:   "10",
		Price:      "4500",
		Type:       domain.OrderTypeMarket,
	})
	require.NoError(t, err)
}

func TestSubmitOrderMalformedLongTicker(t *testing.T) {
	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
	defer closeServer()

	_, err := broker.SubmitBuyOrder(context.Background(), OrderTicket{
		LongTicker: "GGAL",
		Quantity:   "10",
		Price:      "4500",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed long ticker")
}

func TestCancelOrderEchoesInstrument(t *testing.T) {
	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v2/orders/987" && r.Method == http.MethodGet:
			_, _ = fmt.Fprint(w, `{"instrument":"ACCIONES","ticker":"GGAL","status":"PENDING"}`)
		case r.URL.Path == "/api/v2/orders/987" && r.Method == http.MethodDelete:
			var body map[string]string
			require.NoError(t, decodeJSONBody(r, &body))
			assert.Equal(t, "ACCIONES", body["instrument"])
			assert.Equal(t, "GGAL", body["ticker"])
			_, _ = fmt.Fprint(w, `{"status":"CANCELLED"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer closeServer()

	raw, err := broker.CancelOrder(context.Background(), "987")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"CANCELLED"}`, string(raw))
}

func TestWithdrawFundsRequiresKnownBankAccount(t *testing.T) {
	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/transfers/accounts":
			_, _ = fmt.Fprint(w, `[{"cbu_cvu":"0000003100010000000001"}]`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer closeServer()

	_, err := broker.WithdrawFunds(context.Background(), domain.CurrencyPesos, "1000", "9999999999999999999999")
	assert.ErrorIs(t, err, ErrUnknownBankAccount)
}

func TestWithdrawFundsSubmits(t *testing.T) {
	const cbu = "0000003100010000000001"

	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/transfers/accounts":
			_, _ = fmt.Fprintf(w, `[{"cbu_cvu":"%s"}]`, cbu)
		case "/api/v1/transfers/withdraw":
			var body map[string]string
			require.NoError(t, decodeJSONBody(r, &body))
			assert.Equal(t, "1", body["order"])
			assert.Equal(t, "1000", body["amount"])
			assert.Equal(t, cbu, body["cbu_cvu"])
			_, _ = fmt.Fprint(w, `{"status":"ok"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer closeServer()

	_, err := broker.WithdrawFunds(context.Background(), domain.CurrencyPesos, "1000", cbu)
	require.NoError(t, err)
}

func TestInstrumentListRejectsUnknownCombination(t *testing.T) {
	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/markets/types":
			_, _ = fmt.Fprint(w, `[{"instrument_type":"ACCIONES","instrument_subtype":"LIDERES"}]`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer closeServer()

	_, err := broker.InstrumentListSnapshot(context.Background(), InstrumentFilter{
		Type:       domain.InstrumentBonosPublicos,
		SubType:    domain.SubTypeLideres,
		Settlement: domain.SettlementT2,
		Currency:   domain.CurrencyPesos,
		Segment:    domain.SegmentDefault,
	})
	assert.ErrorIs(t, err, ErrInvalidCombination)
}

func TestInstrumentListPassesFilterThrough(t *testing.T) {
	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/markets/types":
			_, _ = fmt.Fprint(w, `[{"instrument_type":"ACCIONES","instrument_subtype":"LIDERES"}]`)
		case "/api/v1/markets/lists/tickers/":
			query := r.URL.Query()
			assert.Equal(t, "ACCIONES", query.Get("instrument_type"))
			assert.Equal(t, "LIDERES", query.Get("instrument_subtype"))
			assert.Equal(t, "48hs", query.Get("settlement_days"))
			assert.Equal(t, "ARS", query.Get("currency"))
			assert.Equal(t, "C", query.Get("segment"))
			_, _ = fmt.Fprint(w, `{"items":[]}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer closeServer()

	_, err := broker.InstrumentListSnapshot(context.Background(), InstrumentFilter{
		Type:       domain.InstrumentAcciones,
		SubType:    domain.SubTypeLideres,
		Settlement: domain.SettlementT2,
		Currency:   domain.CurrencyPesos,
		Segment:    domain.SegmentDefault,
	})
	require.NoError(t, err)
}

func TestSearchTickerRejectsShortQuery(t *testing.T) {
	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
	defer closeServer()

	_, err := broker.SearchTicker(context.Background(), "g")
	assert.ErrorIs(t, err, ErrQueryTooShort)
}

func TestPassthroughOperationsHitTheirEndpoints(t *testing.T) {
	var paths []string
	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = fmt.Fprint(w, `[]`)
	})
	defer closeServer()

	ctx := context.Background()
	calls := []func() (json.RawMessage, error){
		func() (json.RawMessage, error) { return broker.MyData(ctx) },
		func() (json.RawMessage, error) { return broker.Portfolio(ctx) },
		func() (json.RawMessage, error) { return broker.MarketStatus(ctx) },
		func() (json.RawMessage, error) { return broker.DolarMEP(ctx) },
		func() (json.RawMessage, error) { return broker.OpenDolarMEP(ctx) },
		func() (json.RawMessage, error) { return broker.RecommendedTickers(ctx) },
		func() (json.RawMessage, error) { return broker.FavoriteTickers(ctx) },
		func() (json.RawMessage, error) { return broker.Carrousel(ctx) },
		func() (json.RawMessage, error) { return broker.News(ctx) },
		func() (json.RawMessage, error) { return broker.UniversityArticles(ctx) },
		func() (json.RawMessage, error) { return broker.InvestorTest(ctx) },
	}
	for _, call := range calls {
		_, err := call()
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"/api/v1/users/me",
		"/api/v1/wallet/portfolio",
		"/api/v1/calendar/open-market",
		"/api/v1/public/mep-prices",
		"/api/v1/public/open-dolar-mep",
		"/api/v1/markets/lists/home",
		"/api/v1/markets/lists/me",
		"/api/v1/home/carrousel",
		"/api/v1/home/news",
		"/api/v1/home/university",
		"/api/v1/users/investor-profile-test",
	}, paths)
}

func TestSubmitInvestorTestPostsAnswers(t *testing.T) {
	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/users/investor-profile-test", r.URL.Path)
		var body map[string]any
		require.NoError(t, decodeJSONBody(r, &body))
		assert.Equal(t, "b", body["q1"])
		_, _ = fmt.Fprint(w, `{"profile":"moderate"}`)
	})
	defer closeServer()

	raw, err := broker.SubmitInvestorTest(context.Background(), map[string]any{"q1": "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"profile":"moderate"}`, string(raw))
}

func TestPortfolioPerformanceTimeframeRouting(t *testing.T) {
	var paths []string
	broker, closeServer := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = fmt.Fprint(w, `{}`)
	})
	defer closeServer()

	ctx := context.Background()

	_, err := broker.PortfolioPerformance(ctx, domain.TimeframeDaily, "", "")
	require.NoError(t, err)
	_, err = broker.PortfolioPerformance(ctx, domain.TimeframeHistorical, "", "")
	require.NoError(t, err)
	_, err = broker.PortfolioPerformance(ctx, domain.TimeframeRange, "2026-01-01", "2026-06-30")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/v1/wallet/performance/daily",
		"/api/v1/wallet/performance/historic",
		"/api/v1/wallet/performance/global",
	}, paths)

	_, err = broker.PortfolioPerformance(ctx, domain.PerformanceTimeframe("hourly"), "", "")
	assert.ErrorIs(t, err, domain.ErrUnknownEnumValue)
}
