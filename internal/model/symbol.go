package model

// Symbol represents a searchable/chartable instrument.
type Symbol struct {
	ID   string `json:"symbol"` // provider ticker, e.g. "AAPL", "RELIANCE.NS"
	Name string `json:"name"`   // long name, falls back to ID when unknown
}

// PopularSymbols groups well-known tickers by market for the symbol picker.
var PopularSymbols = map[string][]string{
	"US": {"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN", "NVDA", "META", "SPY", "QQQ", "BTC-USD", "ETH-USD"},
	"INDIAN": {"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "INFY.NS", "HINDUNILVR.NS",
		"ITC.NS", "SBIN.NS", "BHARTIARTL.NS", "KOTAKBANK.NS", "LT.NS"},
}
