package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/jainsamta1990/TradingPro/internal/model"
)

// YahooClient implements Provider against the Yahoo Finance chart API.
type YahooClient struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooClient creates a Yahoo Finance client.
func NewYahooClient(baseURL string, timeout time.Duration) *YahooClient {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	return &YahooClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (c *YahooClient) Name() string { return "yahoo" }

// knownUSSymbols skips the Indian-exchange suffix heuristic for tickers that
// are unambiguously US-listed.
var knownUSSymbols = map[string]bool{
	"AAPL": true, "GOOGL": true, "MSFT": true, "TSLA": true,
	"AMZN": true, "NVDA": true, "META": true, "SPY": true,
}

// FormatSymbol maps a user-entered symbol to a Yahoo ticker. Bare short
// symbols that are not known US tickers get the NSE suffix.
func FormatSymbol(symbol string) string {
	if strings.Contains(symbol, ".NS") || strings.Contains(symbol, ".BO") {
		return symbol
	}
	if knownUSSymbols[strings.ToUpper(symbol)] {
		return symbol
	}
	if len(symbol) <= 10 && !strings.Contains(symbol, ".") {
		return symbol + ".NS"
	}
	return symbol
}

// yahooParams maps a chart timeframe to the provider interval and lookback
// range. Composite timeframes map to their base interval; the resampler
// merges them afterwards.
func yahooParams(tf model.Timeframe) (interval, rng string) {
	switch tf {
	case "1m":
		return "1m", "1d"
	case "5m":
		return "5m", "5d"
	case "15m":
		return "15m", "5d"
	case "1h":
		return "1h", "1mo"
	case "4h":
		return "1h", "3mo"
	case "1d":
		return "1d", "1y"
	case "2d", "3d":
		return "1d", "2y"
	case "1w":
		return "1wk", "2y"
	case "2w", "3w":
		return "1wk", "5y"
	case "1M":
		return "1mo", "5y"
	case "2M", "3M":
		return "1mo", "10y"
	case "6M", "1Y":
		return "1mo", "max"
	default:
		return "1d", "1y"
	}
}

// ResampleFactor returns how many base bars fold into one bar of the
// timeframe, 1 when the provider serves it natively.
func ResampleFactor(tf model.Timeframe) int {
	switch tf {
	case "4h":
		return 4
	case "2d", "2w", "2M":
		return 2
	case "3d", "3w", "3M":
		return 3
	case "6M":
		return 6
	case "1Y":
		return 12
	default:
		return 1
	}
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				LongName string `json:"longName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (c *YahooClient) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.BaseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	return &chart, nil
}

// FetchBars returns ascending bars at the timeframe's base resolution.
func (c *YahooClient) FetchBars(ctx context.Context, symbol string, tf model.Timeframe) ([]model.Bar, error) {
	interval, rng := yahooParams(tf)
	chart, err := c.fetchChart(ctx, FormatSymbol(symbol), interval, rng)
	if err != nil {
		return nil, err
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, ErrNoData
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, ErrNoData
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))

	// Yahoo occasionally emits quote arrays shorter than the timestamp
	// array; index only the prefix every array covers.
	n := len(result.Timestamp)
	for _, arr := range [][]interface{}{quote.Open, quote.High, quote.Low, quote.Close, quote.Volume} {
		if len(arr) < n {
			n = len(arr)
		}
	}

	for i, ts := range result.Timestamp[:n] {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		cl := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.Bar{
			Timestamp: ts * 1000,
			Open:      o,
			High:      h,
			Low:       l,
			Close:     cl,
			Volume:    toFloat(quote.Volume[i]),
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp < bars[j].Timestamp })
	return bars, nil
}

// FetchQuote derives the latest price and day change from the last two
// daily closes.
func (c *YahooClient) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	chart, err := c.fetchChart(ctx, FormatSymbol(symbol), "1d", "5d")
	if err != nil {
		return nil, err
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, ErrNoData
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	closes := make([]float64, 0, len(result.Timestamp))
	for _, v := range result.Indicators.Quote[0].Close {
		if f := toFloat(v); f > 0 {
			closes = append(closes, f)
		}
	}
	if len(closes) == 0 {
		return nil, ErrNoData
	}

	price := closes[len(closes)-1]
	prev := price
	if len(closes) > 1 {
		prev = closes[len(closes)-2]
	}
	q := &model.Quote{
		Symbol: symbol,
		Name:   result.Meta.LongName,
		Price:  price,
		Change: price - prev,
	}
	if q.Name == "" {
		q.Name = symbol
	}
	if prev != 0 {
		q.ChangePercent = q.Change / prev * 100
	}
	return q, nil
}

// Search resolves a query by probing the ticker directly and, for short
// queries, with the NSE suffix. Matches from the popular lists come first.
func (c *YahooClient) Search(ctx context.Context, query string) ([]model.Symbol, error) {
	query = strings.ToUpper(strings.TrimSpace(query))
	if len(query) < 2 {
		return nil, nil
	}

	var results []model.Symbol
	seen := map[string]bool{}
	add := func(s model.Symbol) {
		if !seen[s.ID] {
			seen[s.ID] = true
			results = append(results, s)
		}
	}

	for _, market := range []string{"US", "INDIAN"} {
		for _, id := range model.PopularSymbols[market] {
			if strings.Contains(id, query) {
				add(model.Symbol{ID: id, Name: id})
			}
		}
	}

	candidates := []string{query}
	if len(query) <= 10 && !strings.Contains(query, ".") {
		candidates = append(candidates, query+".NS")
	}
	for _, cand := range candidates {
		chart, err := c.fetchChart(ctx, cand, "1d", "1d")
		if err != nil {
			continue // probe miss is not an error
		}
		if len(chart.Chart.Result) == 0 {
			continue
		}
		meta := chart.Chart.Result[0].Meta
		name := meta.LongName
		if name == "" {
			name = cand
		}
		sym := meta.Symbol
		if sym == "" {
			sym = cand
		}
		add(model.Symbol{ID: sym, Name: name})
	}
	return results, nil
}
