// Package sapfmt decodes the legacy SAP OData v2 wire formats for dates,
// durations and amounts into display strings.
package sapfmt

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is rendered whenever a wire value is absent or malformed.
const Placeholder = "-"

var (
	dateRe     = regexp.MustCompile(`/Date\((\d+)\)/`)
	durationRe = regexp.MustCompile(`^PT(\d{1,2})H(\d{1,2})M(\d{1,2})S$`)
)

// Formatter renders wire values for one display locale.
type Formatter struct {
	layout  string
	printer *message.Printer
}

// New builds a Formatter. locale is a BCP 47 tag such as "vi" or "en";
// dateLayout is a Go reference layout, e.g. "02/01/2006".
func New(locale, dateLayout string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if dateLayout == "" {
		dateLayout = "02/01/2006"
	}
	return Formatter{layout: dateLayout, printer: message.NewPrinter(tag)}
}

// Date decodes the "/Date(<epoch-ms>)/" convention into a calendar date.
// Anything that does not match yields the placeholder; it never fails.
func (f Formatter) Date(raw string) string {
	m := dateRe.FindStringSubmatch(raw)
	if m == nil {
		return Placeholder
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Placeholder
	}
	return time.UnixMilli(ms).UTC().Format(f.layout)
}

// Amount renders a decimal wire amount with locale digit grouping and two
// fraction digits, suffixed with the currency code.
func (f Formatter) Amount(value, currency string) string {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Placeholder
	}
	formatted := f.printer.Sprintf("%v", number.Decimal(v, number.Scale(2)))
	if currency == "" {
		return formatted
	}
	return formatted + " " + currency
}

// Duration decodes the "PT<H>H<M>M<S>S" time-of-day encoding into HH:MM:SS.
// Malformed input yields the placeholder, never an error.
func Duration(raw string) string {
	m := durationRe.FindStringSubmatch(raw)
	if m == nil {
		return Placeholder
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%02d:%02d:%02d", h, mi, s)
}
