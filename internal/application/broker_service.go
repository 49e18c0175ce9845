package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nacho-herrera/go-cocos/internal/adapters/rest"
	"github.com/nacho-herrera/go-cocos/internal/domain"
)

var (
	ErrInsufficientFunds    = errors.New("not enough funds to place the order")
	ErrInsufficientHoldings = errors.New("not enough holdings to place the order")
	ErrUnknownBankAccount   = errors.New("bank account not registered, add it first")
	ErrInvalidCombination   = errors.New("invalid instrument type and subtype combination")
	ErrQueryTooShort        = errors.New("search query must be at least 2 characters long")
)

// BrokerService exposes the typed operations of the platform: portfolio,
// orders, transfers and market data. Every successful call returns the
// server's JSON verbatim.
type BrokerService struct {
	dispatcher *Dispatcher
}

func NewBrokerService(dispatcher *Dispatcher) *BrokerService {
	return &BrokerService{dispatcher: dispatcher}
}

// --- portfolio ---

func (s *BrokerService) MyData(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.MyDataRequest())
}

func (s *BrokerService) BankAccounts(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.BankAccountsRequest())
}

func (s *BrokerService) Portfolio(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.PortfolioRequest())
}

// FundsAvailable returns the buying power per settlement date.
func (s *BrokerService) FundsAvailable(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.BuyingPowerRequest())
}

// StocksAvailable returns the sellable quantity per settlement date for one
// long ticker.
func (s *BrokerService) StocksAvailable(ctx context.Context, longTicker string) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.SellingPowerRequest(longTicker))
}

func (s *BrokerService) AccountActivity(ctx context.Context, dateFrom, dateTo string) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.AccountMovementsRequest(dateFrom, dateTo))
}

func (s *BrokerService) TransferReceipt(ctx context.Context, receiptID string) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.TransferReceiptRequest(receiptID))
}

// PortfolioPerformance picks the endpoint by timeframe: range needs a date
// window, everything else hits the daily report.
func (s *BrokerService) PortfolioPerformance(ctx context.Context, timeframe domain.PerformanceTimeframe, dateFrom, dateTo string) (json.RawMessage, error) {
	if !timeframe.Valid() {
		return nil, fmt.Errorf("%w: performance timeframe %q", domain.ErrUnknownEnumValue, timeframe)
	}

	switch timeframe {
	case domain.TimeframeRange:
		return s.dispatcher.Call(ctx, rest.PerformancePeriodRequest(dateFrom, dateTo))
	case domain.TimeframeHistorical:
		return s.dispatcher.Call(ctx, rest.HistoricPerformanceRequest())
	default:
		return s.dispatcher.Call(ctx, rest.DailyPerformanceRequest())
	}
}

func (s *BrokerService) SubmitNewBankAccount(ctx context.Context, cbu, cuit string, currency domain.Currency) (json.RawMessage, error) {
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: currency %q", domain.ErrUnknownEnumValue, currency)
	}

	return s.dispatcher.Call(ctx, rest.NewBankAccountRequest(map[string]string{
		"cbu_cvu":  cbu,
		"cuit":     cuit,
		"currency": currency.Wire(),
	}))
}

// WithdrawFunds transfers funds out to a registered bank account. The
// CBU/CVU must already be on file.
func (s *BrokerService) WithdrawFunds(ctx context.Context, currency domain.Currency, amount, cbuCVU string) (json.RawMessage, error) {
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: currency %q", domain.ErrUnknownEnumValue, currency)
	}

	known, err := s.bankAccountExists(ctx, cbuCVU)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBankAccount, cbuCVU)
	}

	return s.dispatcher.Call(ctx, rest.WithdrawRequest(map[string]string{
		"order":    "1",
		"amount":   amount,
		"currency": currency.Wire(),
		"cbu_cvu":  cbuCVU,
	}))
}

func (s *BrokerService) bankAccountExists(ctx context.Context, cbuCVU string) (bool, error) {
	raw, err := s.BankAccounts(ctx)
	if err != nil {
		return false, err
	}

	var accounts []struct {
		CBUCVU string `json:"cbu_cvu"`
	}
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return false, &rest.ProtocolError{Err: fmt.Errorf("decode bank accounts: %w", err)}
	}

	for _, account := range accounts {
		if account.CBUCVU == cbuCVU {
			return true, nil
		}
	}
	return false, nil
}

// --- orders ---

// OrderTicket is one buy or sell instruction. Quantity and price travel as
// strings, matching what the API expects.
type OrderTicket struct {
	LongTicker string
	Quantity   string
	Price      string
	Type       domain.OrderType
}

func (t OrderTicket) orderType() domain.OrderType {
	if t.Type == "" {
		return domain.OrderTypeLimit
	}
	return t.Type
}

// SubmitBuyOrder validates available funds at the ticket's settlement date
// and currency before sending the order.
func (s *BrokerService) SubmitBuyOrder(ctx context.Context, ticket OrderTicket) (json.RawMessage, error) {
	if !ticket.orderType().Valid() {
		return nil, fmt.Errorf("%w: order type %q", domain.ErrUnknownEnumValue, ticket.Type)
	}

	ok, err := s.validateBuyingPower(ctx, ticket)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientFunds
	}

	return s.submitOrder(ctx, ticket, domain.OrderSideBuy)
}

// SubmitSellOrder validates available holdings before sending the order.
func (s *BrokerService) SubmitSellOrder(ctx context.Context, ticket OrderTicket) (json.RawMessage, error) {
	if !ticket.orderType().Valid() {
		return nil, fmt.Errorf("%w: order type %q", domain.ErrUnknownEnumValue, ticket.Type)
	}

	ok, err := s.validateSellingPower(ctx, ticket)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientHoldings
	}

	return s.submitOrder(ctx, ticket, domain.OrderSideSell)
}

func (s *BrokerService) submitOrder(ctx context.Context, ticket OrderTicket, side domain.OrderSide) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.SubmitOrderRequest(map[string]string{
		"type":        ticket.orderType().Wire(),
		"side":        side.Wire(),
		"quantity":    ticket.Quantity,
		"long_ticker": ticket.LongTicker,
		"price":       ticket.Price,
	}))
}

// PlaceRepoOrder lends funds for a fixed term at a fixed rate (caucion).
func (s *BrokerService) PlaceRepoOrder(ctx context.Context, currency domain.Currency, amount float64, termDays int, rate float64) (json.RawMessage, error) {
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: currency %q", domain.ErrUnknownEnumValue, currency)
	}

	return s.dispatcher.Call(ctx, rest.RepoOrderRequest(map[string]any{
		"currency": currency.Wire(),
		"amount":   amount,
		"term":     termDays,
		"rate":     rate,
	}))
}

// CancelOrder looks the order up first because the cancel endpoint wants
// the instrument and ticker echoed back.
func (s *BrokerService) CancelOrder(ctx context.Context, orderNumber string) (json.RawMessage, error) {
	raw, err := s.OrderStatus(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	var order struct {
		Instrument string `json:"instrument"`
		Ticker     string `json:"ticker"`
	}
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, &rest.ProtocolError{Err: fmt.Errorf("decode order: %w", err)}
	}

	return s.dispatcher.Call(ctx, rest.CancelOrderRequest(orderNumber, map[string]string{
		"instrument": order.Instrument,
		"ticker":     order.Ticker,
	}))
}

// OrderStatus returns one order when a number is given, otherwise all of
// them.
func (s *BrokerService) OrderStatus(ctx context.Context, orderNumber string) (json.RawMessage, error) {
	if orderNumber == "" {
		return s.dispatcher.Call(ctx, rest.OrdersRequest())
	}
	return s.dispatcher.Call(ctx, rest.OrderRequest(orderNumber))
}

// --- instruments ---

func (s *BrokerService) DailyHistory(ctx context.Context, longTicker, dateFrom string) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.HistoricDataRequest(longTicker, dateFrom))
}

// InstrumentSnapshot lists every long-ticker combination of a short ticker
// within a segment.
func (s *BrokerService) InstrumentSnapshot(ctx context.Context, ticker string, segment domain.Segment) (json.RawMessage, error) {
	if !segment.Valid() {
		return nil, fmt.Errorf("%w: segment %q", domain.ErrUnknownEnumValue, segment)
	}

	return s.dispatcher.Call(ctx, rest.TickerRequest(ticker, segment.Wire()))
}

// InstrumentFilter selects an instrument list by category.
type InstrumentFilter struct {
	Type       domain.InstrumentType
	SubType    domain.InstrumentSubType
	Settlement domain.Settlement
	Currency   domain.Currency
	Segment    domain.Segment
}

func (f InstrumentFilter) validate() error {
	if !f.Type.Valid() {
		return fmt.Errorf("%w: instrument type %q", domain.ErrUnknownEnumValue, f.Type)
	}
	if !f.SubType.Valid() {
		return fmt.Errorf("%w: instrument subtype %q", domain.ErrUnknownEnumValue, f.SubType)
	}
	if !f.Settlement.Valid() {
		return fmt.Errorf("%w: settlement %q", domain.ErrUnknownEnumValue, f.Settlement)
	}
	if !f.Currency.Valid() {
		return fmt.Errorf("%w: currency %q", domain.ErrUnknownEnumValue, f.Currency)
	}
	if !f.Segment.Valid() {
		return fmt.Errorf("%w: segment %q", domain.ErrUnknownEnumValue, f.Segment)
	}
	return nil
}

func (s *BrokerService) InstrumentListSnapshot(ctx context.Context, filter InstrumentFilter) (json.RawMessage, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	if err := s.validateCombination(ctx, filter.Type, filter.SubType); err != nil {
		return nil, err
	}

	return s.dispatcher.Call(ctx, rest.TickersListRequest(
		filter.Type.Wire(), filter.SubType.Wire(), filter.Settlement.Wire(),
		filter.Currency.Wire(), filter.Segment.Wire(),
	))
}

func (s *BrokerService) InstrumentListSnapshotPage(ctx context.Context, filter InstrumentFilter, page, size int) (json.RawMessage, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	if err := s.validateCombination(ctx, filter.Type, filter.SubType); err != nil {
		return nil, err
	}

	return s.dispatcher.Call(ctx, rest.TickersPaginationRequest(
		filter.Type.Wire(), filter.SubType.Wire(), filter.Settlement.Wire(),
		filter.Currency.Wire(), filter.Segment.Wire(), page, size,
	))
}

func (s *BrokerService) RecommendedTickers(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.HomeListRequest())
}

func (s *BrokerService) FavoriteTickers(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.MyListRequest())
}

func (s *BrokerService) SearchTicker(ctx context.Context, query string) (json.RawMessage, error) {
	if len(query) < 2 {
		return nil, ErrQueryTooShort
	}
	return s.dispatcher.Call(ctx, rest.TickersSearchRequest(query))
}

// --- market info ---

func (s *BrokerService) MarketStatus(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.MarketStatusRequest())
}

func (s *BrokerService) InstrumentRules(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.InstrumentRulesRequest())
}

func (s *BrokerService) InstrumentTypesAndSubtypes(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.InstrumentTypesRequest())
}

// AllowedCombinations parses the server's catalog of valid instrument type
// and subtype pairs.
func (s *BrokerService) AllowedCombinations(ctx context.Context) ([][2]string, error) {
	raw, err := s.InstrumentTypesAndSubtypes(ctx)
	if err != nil {
		return nil, err
	}

	var entries []struct {
		InstrumentType    string `json:"instrument_type"`
		InstrumentSubType string `json:"instrument_subtype"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &rest.ProtocolError{Err: fmt.Errorf("decode instrument types: %w", err)}
	}

	combinations := make([][2]string, 0, len(entries))
	for _, entry := range entries {
		combinations = append(combinations, [2]string{entry.InstrumentType, entry.InstrumentSubType})
	}
	return combinations, nil
}

func (s *BrokerService) validateCombination(ctx context.Context, instrumentType domain.InstrumentType, subType domain.InstrumentSubType) error {
	combinations, err := s.AllowedCombinations(ctx)
	if err != nil {
		return err
	}

	for _, combination := range combinations {
		if combination[0] == instrumentType.Wire() && combination[1] == subType.Wire() {
			return nil
		}
	}
	return fmt.Errorf("%w: %s/%s", ErrInvalidCombination, instrumentType.Wire(), subType.Wire())
}

func (s *BrokerService) DolarMEP(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.DolarMEPRequest())
}

func (s *BrokerService) OpenDolarMEP(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.OpenDolarMEPRequest())
}

// --- misc ---

func (s *BrokerService) Carrousel(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.CarrouselRequest())
}

func (s *BrokerService) News(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.NewsRequest())
}

func (s *BrokerService) UniversityArticles(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.UniversityRequest())
}

func (s *BrokerService) InvestorTest(ctx context.Context) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.InvestorTestRequest())
}

func (s *BrokerService) SubmitInvestorTest(ctx context.Context, answers map[string]any) (json.RawMessage, error) {
	return s.dispatcher.Call(ctx, rest.SubmitInvestorTestRequest(answers))
}

// --- validation helpers ---

// validateBuyingPower checks the free funds at the ticket's settlement and
// currency against the order total, adjusted by the instrument's price
// factor (bonds quote per 100 nominals).
func (s *BrokerService) validateBuyingPower(ctx context.Context, ticket OrderTicket) (bool, error) {
	parsed, err := domain.ParseLongTicker(ticket.LongTicker)
	if err != nil {
		return false, err
	}

	priceFactor, err := s.priceFactor(ctx, ticket.LongTicker, parsed)
	if err != nil {
		return false, err
	}

	raw, err := s.FundsAvailable(ctx)
	if err != nil {
		return false, err
	}

	var funds map[string]map[string]float64
	if err := json.Unmarshal(raw, &funds); err != nil {
		return false, &rest.ProtocolError{Err: fmt.Errorf("decode buying power: %w", err)}
	}

	quantity, err := strconv.ParseFloat(ticket.Quantity, 64)
	if err != nil {
		return false, fmt.Errorf("parse quantity %q: %w", ticket.Quantity, err)
	}
	price, err := strconv.ParseFloat(ticket.Price, 64)
	if err != nil {
		return false, fmt.Errorf("parse price %q: %w", ticket.Price, err)
	}

	currencyKey := strings.ToLower(parsed.CurrencyCode())
	available := funds[parsed.Settlement.Wire()][currencyKey]
	orderTotal := quantity * price / priceFactor

	return available >= orderTotal, nil
}

func (s *BrokerService) validateSellingPower(ctx context.Context, ticket OrderTicket) (bool, error) {
	parsed, err := domain.ParseLongTicker(ticket.LongTicker)
	if err != nil {
		return false, err
	}

	raw, err := s.StocksAvailable(ctx, ticket.LongTicker)
	if err != nil {
		return false, err
	}

	var holdings map[string]float64
	if err := json.Unmarshal(raw, &holdings); err != nil {
		return false, &rest.ProtocolError{Err: fmt.Errorf("decode selling power: %w", err)}
	}

	quantity, err := strconv.ParseFloat(ticket.Quantity, 64)
	if err != nil {
		return false, fmt.Errorf("parse quantity %q: %w", ticket.Quantity, err)
	}

	return holdings[parsed.Settlement.Wire()] >= quantity, nil
}

// priceFactor resolves the instrument code through search and reads the
// price factor off the snapshot. Instruments without one trade at factor 1.
func (s *BrokerService) priceFactor(ctx context.Context, longTicker string, parsed domain.LongTicker) (float64, error) {
	instrumentCode, err := s.findInstrumentCode(ctx, longTicker, parsed.Ticker)
	if err != nil {
		return 0, err
	}
	if instrumentCode == "" {
		return 1, nil
	}

	raw, err := s.InstrumentSnapshot(ctx, instrumentCode, parsed.Segment)
	if err != nil {
		return 0, err
	}

	var snapshot []struct {
		LongTicker  string  `json:"long_ticker"`
		PriceFactor float64 `json:"price_factor"`
	}
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return 0, &rest.ProtocolError{Err: fmt.Errorf("decode instrument snapshot: %w", err)}
	}

	for _, instrument := range snapshot {
		if instrument.LongTicker == longTicker && instrument.PriceFactor != 0 {
			return instrument.PriceFactor, nil
		}
	}
	return 1, nil
}

func (s *BrokerService) findInstrumentCode(ctx context.Context, longTicker, shortTicker string) (string, error) {
	raw, err := s.SearchTicker(ctx, shortTicker)
	if err != nil {
		return "", err
	}

	var results []struct {
		InstrumentSubTypes []struct {
			MarketData []struct {
				LongTicker     string `json:"long_ticker"`
				InstrumentCode string `json:"instrument_code"`
			} `json:"market_data"`
		} `json:"instrument_subtypes"`
	}
	if err := json.Unmarshal(raw, &results); err != nil {
		return "", &rest.ProtocolError{Err: fmt.Errorf("decode ticker search: %w", err)}
	}

	for _, result := range results {
		for _, subType := range result.InstrumentSubTypes {
			for _, data := range subType.MarketData {
				if data.LongTicker == longTicker {
					return data.InstrumentCode, nil
				}
			}
		}
	}
	return "", nil
}
