package catalog

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Cities are the tabs offered on the browse screen.
var Cities = []string{"Mumbai", "Delhi", "Bangalore", "Pune", "Goa", "Hyderabad", "Chennai", "Kolkata"}

const (
	lakh  = 100_000
	crore = 10_000_000
)

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatPrice renders a rupee amount: crores and lakhs with two decimals,
// smaller amounts with Indian digit grouping.
func FormatPrice(price int64) string {
	switch {
	case price >= crore:
		return fmt.Sprintf("₹%.2f Cr", float64(price)/crore)
	case price >= lakh:
		return fmt.Sprintf("₹%.2f L", float64(price)/lakh)
	}
	return "₹" + inr.Sprint(number.Decimal(price))
}

func itoa(n int) string { return strconv.Itoa(n) }

func trimFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
