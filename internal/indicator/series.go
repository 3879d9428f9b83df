// Package indicator provides technical indicator calculations over price series.
//
// Unlike a streaming engine, these are whole-series functions: each returns an
// array aligned 1:1 with its input so the chart can slice indicator values and
// bars with the same indices. They are total functions over finite numeric
// input; malformed (empty) input yields empty output, never an error.
package indicator

import "math"

// Undefined is the sentinel for indices where an indicator has no value
// (future placeholder territory). Callers must test with IsUndefined, not ==.
var Undefined = math.NaN()

// IsUndefined reports whether v is the undefined-value sentinel.
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}

// MovingAverage returns the simple moving average of values with the given
// period. Output is the same length as the input. For i < period-1 there is
// not enough trailing data; the raw value at i is emitted instead so overlay
// lines stay continuous through the warm-up region.
func MovingAverage(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 0 {
		copy(out, values)
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = v // insufficient data: raw-value fallback
		}
	}
	return out
}

// BollingerBands returns the upper, middle and lower bands for values.
// Middle is MovingAverage(values, period); upper/lower are middle ± multiplier
// standard deviations over the trailing window (population std-dev). Warm-up
// indices (i < period-1) fall back to value ± 10, a visually stable band that
// the original charting behavior established; it carries no statistical
// meaning.
func BollingerBands(values []float64, period int, multiplier float64) (upper, middle, lower []float64) {
	middle = MovingAverage(values, period)
	upper = make([]float64, len(values))
	lower = make([]float64, len(values))

	for i, v := range values {
		if i < period-1 {
			upper[i] = v + 10
			lower[i] = v - 10
			continue
		}
		mean := middle[i]
		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		stdDev := math.Sqrt(variance / float64(period))
		upper[i] = mean + multiplier*stdDev
		lower[i] = mean - multiplier*stdDev
	}
	return upper, middle, lower
}

// RSI returns the Relative Strength Index of closePrices using Wilder's
// smoothing. Output is the same length as the input.
//
// Warm-up policy: indices below the period emit a neutral 50, a deliberate
// simplification so the RSI panel has a drawable value from bar zero rather
// than a delayed-start array. At i == period the averages seed from the simple
// mean of the first period deltas; after that the Wilder recurrence applies:
//
//	avgGain = (prevAvgGain*(period-1) + gain) / period
//
// When avgLoss is zero RSI is 100 outright, bypassing the RS division.
func RSI(closePrices []float64, period int) []float64 {
	out := make([]float64, len(closePrices))
	if len(closePrices) == 0 {
		return out
	}
	if period <= 0 {
		period = 14
	}

	var avgGain, avgLoss float64
	for i := range closePrices {
		if i < period {
			out[i] = 50.0 // no prior close (i==0) or insufficient trailing window
			if i > 0 {
				gain, loss := signedDelta(closePrices[i], closePrices[i-1])
				avgGain += gain
				avgLoss += loss
			}
			continue
		}

		gain, loss := signedDelta(closePrices[i], closePrices[i-1])
		if i == period {
			// Seed: simple mean of the first `period` deltas.
			avgGain = (avgGain + gain) / float64(period)
			avgLoss = (avgLoss + loss) / float64(period)
		} else {
			p := float64(period)
			avgGain = (avgGain*(p-1) + gain) / p
			avgLoss = (avgLoss*(p-1) + loss) / p
		}

		if avgLoss == 0 {
			out[i] = 100.0
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100.0 - (100.0 / (1.0 + rs))
	}
	return out
}

// signedDelta splits a close-to-close move into its gain and loss magnitudes.
// Exactly one of the two is non-zero for any non-flat move.
func signedDelta(cur, prev float64) (gain, loss float64) {
	d := cur - prev
	if d > 0 {
		return d, 0
	}
	return 0, -d
}
