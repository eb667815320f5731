package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var spanishMonths = map[string]int{
	"ENERO": 1, "FEBRERO": 2, "MARZO": 3, "ABRIL": 4, "MAYO": 5, "JUNIO": 6,
	"JULIO": 7, "AGOSTO": 8, "SEPTIEMBRE": 9, "SETIEMBRE": 9, "OCTUBRE": 10,
	"NOVIEMBRE": 11, "DICIEMBRE": 12,
}

var (
	reDayFirst    = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})$`)
	reISODate     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	reSpanishLong = regexp.MustCompile(`(?i)^(\d{1,2})\s+de\s+([A-Za-zÁÉÍÓÚÜÑáéíóúüñ]+)\s+(?:de|del)\s+(\d{4})`)
	reLooseDate   = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})$`)
)

// NormalizeDate rewrites the date shapes seen on supplier invoices to
// DD/MM/YYYY: day-first numeric dates with /, - or . separators, ISO dates,
// the Spanish long form ("27 de Mayo del 2025", including the SETIEMBRE
// spelling), and loose day-first dates with two-digit years. Inputs it
// cannot read come back unchanged so the failure stays visible downstream.
func NormalizeDate(text string) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return ""
	}

	if m := reDayFirst.FindStringSubmatch(t); m != nil {
		return formatDMY(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := reISODate.FindStringSubmatch(t); m != nil {
		return formatDMY(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := reSpanishLong.FindStringSubmatch(t); m != nil {
		if month, ok := spanishMonths[NormalizeType(m[2])]; ok {
			return formatDMY(atoi(m[1]), month, atoi(m[3]))
		}
	}
	if m := reLooseDate.FindStringSubmatch(t); m != nil {
		year := atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return formatDMY(atoi(m[1]), atoi(m[2]), year)
	}
	return text
}

func formatDMY(day, month, year int) string {
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
