package model

import "time"

// Tick represents a single live trade from the streaming feed.
// Ticks are folded into the chart's last real bar between full refetches.
type Tick struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"` // last traded price
	Qty    float64   `json:"qty"`   // last traded quantity
	TS     time.Time `json:"ts"`    // UTC trade timestamp
}
