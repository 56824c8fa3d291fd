// Package utils provides utility functions for the application.
package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Monetary amounts are carried as int64 fils (1 AED = 100 fils) everywhere in the
// backend; formatting to whole dirhams with grouping happens only at the edges.

const FilsPerDirham = 100

var aedPrinter = message.NewPrinter(language.English)

// FormatAED renders an amount of fils as "AED 1,234.56".
func FormatAED(fils int64) string {
	sign := ""
	if fils < 0 {
		sign = "-"
		fils = -fils
	}
	return aedPrinter.Sprintf("%sAED %d.%02d", sign, fils/FilsPerDirham, fils%FilsPerDirham)
}
