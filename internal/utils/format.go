package utils

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// ByteCountDecimal formatea bytes en unidades SI (kB, MB, GB...).
func ByteCountDecimal(b int64) string {
	const unit = 1000
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "kMGTPE"[exp])
}

// Megabytes convierte bytes a MiB (2^20), la unidad del informe de texto.
func Megabytes(b int64) float64 {
	return float64(b) / float64(1<<20)
}

// FormatCount agrupa miles: 1234567 -> "1,234,567".
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}
