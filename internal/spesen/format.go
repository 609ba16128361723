package spesen

import (
	"fmt"
	"strings"
)

// Format renders a fee for the document, German style: "25,00 €".
// A nil amount renders empty so the field can be filled in by hand.
func Format(betrag *float64) string {
	if betrag == nil {
		return ""
	}
	return strings.Replace(fmt.Sprintf("%.2f €", *betrag), ".", ",", 1)
}
