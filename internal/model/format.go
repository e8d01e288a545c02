package model

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// countPrinter renders integers with English digit grouping ("65,536").
var countPrinter = message.NewPrinter(language.English)

// FormatCount renders an address or subnet count with thousands separators.
func FormatCount(n uint64) string {
	return countPrinter.Sprintf("%d", n)
}
