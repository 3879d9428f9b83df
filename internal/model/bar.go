package model

import (
	"encoding/json"
	"time"
)

// Bar represents one OHLCV price observation for a fixed time interval.
// Timestamp is a millisecond Unix epoch to match the provider wire format.
// Prices are float64; the renderer maps them through a log scale, so the
// fixed-point representation used by tick feeds is converted at the edge.
type Bar struct {
	Timestamp int64   `json:"timestamp"` // ms epoch, bucket start
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// IsPlaceholder reports whether the bar is a future placeholder.
// Placeholder bars carry no data; Close == 0 is the marker.
func (b *Bar) IsPlaceholder() bool {
	return b.Close == 0
}

// Time returns the bar timestamp as a time.Time (UTC).
func (b *Bar) Time() time.Time {
	return time.UnixMilli(b.Timestamp).UTC()
}

// JSON returns the JSON-encoded bar (ignoring errors for hot-path usage).
func (b *Bar) JSON() []byte {
	out, _ := json.Marshal(b)
	return out
}

// Quote holds the latest traded price for a symbol together with the
// change versus the previous close.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// RSIPoint is one entry of the RSI sub-panel series: the RSI value for a
// real bar plus its overlay values (9-period MA, 20x2 Bollinger Bands).
type RSIPoint struct {
	Timestamp int64   `json:"timestamp"` // ms epoch, matches the source bar
	Value     float64 `json:"value"`
	MA        float64 `json:"ma"`
	UpperBB   float64 `json:"upperBB"`
	LowerBB   float64 `json:"lowerBB"`
}
