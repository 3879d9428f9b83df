package render

import "github.com/dustin/go-humanize"

// FormatPrice renders a price for axis labels and crosshair badges:
// two decimal places always, with a thousands separator above 1000.
func FormatPrice(p float64) string {
	return humanize.FormatFloat("#,###.##", p)
}
