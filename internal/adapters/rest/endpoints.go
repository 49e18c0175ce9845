package rest

import (
	"net/http"
	"net/url"
	"strconv"
)

// Path table for the unofficial API. Reverse-engineered from the web app;
// any of these can change server-side without notice.
const (
	pathToken         = "auth/v1/token"
	pathLogout        = "auth/v1/logout"
	pathDefaultFactor = "auth/v1/factors/default"

	pathOpenMarket   = "api/v1/calendar/open-market"
	pathCarrousel    = "api/v1/home/carrousel"
	pathNews         = "api/v1/home/news"
	pathUniversity   = "api/v1/home/university"
	pathMEPPrices    = "api/v1/public/mep-prices"
	pathOpenDolarMEP = "api/v1/public/open-dolar-mep"

	pathHomeList          = "api/v1/markets/lists/home"
	pathMyList            = "api/v1/markets/lists/me"
	pathTickersList       = "api/v1/markets/lists/tickers/"
	pathTickersPagination = "api/v1/markets/lists/tickers-pagination"
	pathTickersSearch     = "api/v1/markets/tickers/search"
	pathTickerRules       = "api/v1/markets/tickers/rules"
	pathInstrumentTypes   = "api/v1/markets/types"

	pathTransfers     = "api/v1/transfers"
	pathReceipt       = "api/v1/transfers/receipt"
	pathBankAccounts  = "api/v1/transfers/accounts"
	pathWithdraw      = "api/v1/transfers/withdraw"
	pathMyData        = "api/v1/users/me"
	pathInvestorTest  = "api/v1/users/investor-profile-test"
	pathDailyPerf     = "api/v1/wallet/performance/daily"
	pathHistoricPerf  = "api/v1/wallet/performance/historic"
	pathGlobalPerf    = "api/v1/wallet/performance/global"
	pathPortfolio     = "api/v1/wallet/portfolio"
	pathOrders        = "api/v2/orders"
	pathRepoOrder     = "api/v2/orders/caucion"
	pathBuyingPower   = "api/v2/orders/buying-power"
	pathSellingPower  = "api/v2/orders/selling-power/"
)

func pathChallenge(factorID string) string {
	return "auth/v1/factors/" + url.PathEscape(factorID) + "/challenge"
}

func pathVerify(factorID string) string {
	return "auth/v1/factors/" + url.PathEscape(factorID) + "/verify"
}

func pathTicker(ticker string) string {
	return "api/v1/markets/tickers/" + url.PathEscape(ticker)
}

func pathHistoricData(longTicker string) string {
	return "api/v1/markets/tickers/" + url.PathEscape(longTicker) + "/historic-data"
}

func pathOrder(orderNumber string) string {
	return "api/v2/orders/" + url.PathEscape(orderNumber)
}

func getRequest(path string) Request {
	return Request{Method: http.MethodGet, Path: path}
}

// MyDataRequest fetches the personal data of the account owner, including
// the account numbers a fresh session binds to.
func MyDataRequest() Request { return getRequest(pathMyData) }

func PortfolioRequest() Request { return getRequest(pathPortfolio) }

func BankAccountsRequest() Request { return getRequest(pathBankAccounts) }

func BuyingPowerRequest() Request { return getRequest(pathBuyingPower) }

func SellingPowerRequest(longTicker string) Request {
	return Request{
		Method: http.MethodGet,
		Path:   pathSellingPower,
		Query:  url.Values{"long_ticker": {longTicker}},
	}
}

func AccountMovementsRequest(dateFrom, dateTo string) Request {
	return Request{
		Method: http.MethodGet,
		Path:   pathTransfers,
		Query:  url.Values{"date_from": {dateFrom}, "date_to": {dateTo}},
	}
}

func TransferReceiptRequest(receiptID string) Request {
	return Request{
		Method: http.MethodGet,
		Path:   pathReceipt,
		Query:  url.Values{"ext_id_receipt": {receiptID}},
	}
}

func DailyPerformanceRequest() Request { return getRequest(pathDailyPerf) }

func HistoricPerformanceRequest() Request { return getRequest(pathHistoricPerf) }

func PerformancePeriodRequest(dateFrom, dateTo string) Request {
	return Request{
		Method: http.MethodGet,
		Path:   pathGlobalPerf,
		Query:  url.Values{"date_from": {dateFrom}, "date_to": {dateTo}},
	}
}

func NewBankAccountRequest(body any) Request {
	return Request{Method: http.MethodPost, Path: pathBankAccounts, Body: body}
}

func WithdrawRequest(body any) Request {
	return Request{Method: http.MethodPost, Path: pathWithdraw, Body: body}
}

func OrdersRequest() Request { return getRequest(pathOrders) }

func OrderRequest(orderNumber string) Request { return getRequest(pathOrder(orderNumber)) }

func SubmitOrderRequest(body any) Request {
	return Request{Method: http.MethodPost, Path: pathOrders, Body: body}
}

func CancelOrderRequest(orderNumber string, body any) Request {
	return Request{Method: http.MethodDelete, Path: pathOrder(orderNumber), Body: body}
}

func RepoOrderRequest(body any) Request {
	return Request{Method: http.MethodPost, Path: pathRepoOrder, Body: body}
}

func HistoricDataRequest(longTicker, dateFrom string) Request {
	return Request{
		Method: http.MethodGet,
		Path:   pathHistoricData(longTicker),
		Query:  url.Values{"date_from": {dateFrom}},
	}
}

func TickerRequest(ticker, segment string) Request {
	return Request{
		Method: http.MethodGet,
		Path:   pathTicker(ticker),
		Query:  url.Values{"segment": {segment}},
	}
}

func TickersSearchRequest(query string) Request {
	return Request{
		Method: http.MethodGet,
		Path:   pathTickersSearch,
		Query:  url.Values{"q": {query}},
	}
}

func TickersListRequest(instrumentType, instrumentSubType, settlement, currency, segment string) Request {
	return Request{
		Method: http.MethodGet,
		Path:   pathTickersList,
		Query: url.Values{
			"instrument_type":    {instrumentType},
			"instrument_subtype": {instrumentSubType},
			"settlement_days":    {settlement},
			"currency":           {currency},
			"segment":            {segment},
		},
	}
}

func TickersPaginationRequest(instrumentType, instrumentSubType, settlement, currency, segment string, page, size int) Request {
	req := TickersListRequest(instrumentType, instrumentSubType, settlement, currency, segment)
	req.Path = pathTickersPagination
	req.Query.Set("page", strconv.Itoa(page))
	req.Query.Set("size", strconv.Itoa(size))
	return req
}

func HomeListRequest() Request { return getRequest(pathHomeList) }

func MyListRequest() Request { return getRequest(pathMyList) }

func MarketStatusRequest() Request { return getRequest(pathOpenMarket) }

func InstrumentRulesRequest() Request { return getRequest(pathTickerRules) }

func InstrumentTypesRequest() Request { return getRequest(pathInstrumentTypes) }

func DolarMEPRequest() Request { return getRequest(pathMEPPrices) }

func OpenDolarMEPRequest() Request { return getRequest(pathOpenDolarMEP) }

func CarrouselRequest() Request { return getRequest(pathCarrousel) }

func NewsRequest() Request { return getRequest(pathNews) }

func UniversityRequest() Request { return getRequest(pathUniversity) }

func InvestorTestRequest() Request { return getRequest(pathInvestorTest) }

func SubmitInvestorTestRequest(body any) Request {
	return Request{Method: http.MethodPost, Path: pathInvestorTest, Body: body}
}
