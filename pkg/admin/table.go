package admin

import (
	"strconv"
	"time"
)

const cellTimeLayout = "2006-01-02 15:04"

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func cellTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(loc).Format(cellTimeLayout)
}

func cellTimePtr(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return cellTime(*t, loc)
}

func cellAmount(currency string, v float64) string {
	return currency + strconv.FormatFloat(v, 'f', -1, 64)
}

func cellText(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func itoa(n int) string { return strconv.Itoa(n) }
