package marketdata

import "github.com/jainsamta1990/TradingPro/internal/model"

// Resample folds every `factor` consecutive base bars into one composite
// bar: first open, max high, min low, last close, summed volume. The bar
// keeps the timestamp of the first base bar in its group. Groups are
// anchored at the end of the series so the newest composite bar is always
// built from the newest base bars; a short leading remainder becomes a
// partial first bar.
func Resample(bars []model.Bar, factor int) []model.Bar {
	if factor <= 1 || len(bars) == 0 {
		return bars
	}

	lead := len(bars) % factor
	out := make([]model.Bar, 0, len(bars)/factor+1)
	if lead > 0 {
		out = append(out, merge(bars[:lead]))
	}
	for i := lead; i < len(bars); i += factor {
		out = append(out, merge(bars[i:i+factor]))
	}
	return out
}

// merge collapses one group of base bars into a single composite bar.
func merge(group []model.Bar) model.Bar {
	b := model.Bar{
		Timestamp: group[0].Timestamp,
		Open:      group[0].Open,
		High:      group[0].High,
		Low:       group[0].Low,
		Close:     group[len(group)-1].Close,
	}
	for i := range group {
		if group[i].High > b.High {
			b.High = group[i].High
		}
		if group[i].Low < b.Low {
			b.Low = group[i].Low
		}
		b.Volume += group[i].Volume
	}
	return b
}
