package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// chartPayload builds a minimal chart API response with nTS timestamps and
// nQuote entries per quote array.
func chartPayload(nTS, nQuote int) string {
	ts := ""
	for i := 0; i < nTS; i++ {
		if i > 0 {
			ts += ","
		}
		ts += fmt.Sprintf("%d", 1_700_000_000+int64(i)*86_400)
	}
	arr := func(base float64) string {
		s := ""
		for i := 0; i < nQuote; i++ {
			if i > 0 {
				s += ","
			}
			s += fmt.Sprintf("%g", base+float64(i))
		}
		return s
	}
	return fmt.Sprintf(`{"chart":{"result":[{
		"meta":{"symbol":"AAPL","longName":"Apple Inc."},
		"timestamp":[%s],
		"indicators":{"quote":[{
			"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[%s]
		}]}
	}],"error":null}}`, ts, arr(100), arr(102), arr(98), arr(101), arr(1000))
}

func yahooTestClient(t *testing.T, payload string) *YahooClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, payload)
	}))
	t.Cleanup(srv.Close)
	return NewYahooClient(srv.URL, time.Second)
}

func TestFetchBars_TruncatedQuoteArrays(t *testing.T) {
	// Yahoo sometimes serves quote arrays shorter than the timestamp array.
	// The extra timestamps have no prices and must be dropped, not indexed.
	c := yahooTestClient(t, chartPayload(6, 4))

	bars, err := c.FetchBars(context.Background(), "AAPL", "1d")
	if err != nil {
		t.Fatalf("FetchBars: %v", err)
	}
	if len(bars) != 4 {
		t.Fatalf("got %d bars, want the 4 the quote arrays cover", len(bars))
	}
	for i, b := range bars {
		if b.Open != 100+float64(i) || b.Close != 101+float64(i) {
			t.Fatalf("bar %d = %+v, wrong quote row", i, b)
		}
	}
}

func TestFetchBars_FullPayload(t *testing.T) {
	c := yahooTestClient(t, chartPayload(5, 5))

	bars, err := c.FetchBars(context.Background(), "AAPL", "1d")
	if err != nil {
		t.Fatalf("FetchBars: %v", err)
	}
	if len(bars) != 5 {
		t.Fatalf("got %d bars, want 5", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Timestamp <= bars[i-1].Timestamp {
			t.Fatal("bars not ascending by timestamp")
		}
	}
}
