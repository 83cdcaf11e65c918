package models

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is the marker rendered for a missing metric value
const NotAvailable = "N/A"

// Metric direction values. Rising prices are the favorable direction, so a
// negative change renders as "down" (unfavorable) and everything else as "up".
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Metric represents a labeled scalar for the dashboard metric row
type Metric struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Delta     string `json:"delta,omitempty"`
	Direction string `json:"direction,omitempty"`
}

var gbPrinter = message.NewPrinter(language.BritishEnglish)

// FormatPounds formats a present value as a whole currency amount with
// thousands separators
func FormatPounds(v float64) string {
	return gbPrinter.Sprintf("£%.0f", v)
}

// FormatCurrency formats a nullable currency amount
func FormatCurrency(a Amount) string {
	if !a.Valid {
		return NotAvailable
	}
	return FormatPounds(a.Value)
}

// FormatPercent formats a nullable percentage to one decimal place
func FormatPercent(a Amount) string {
	if !a.Valid {
		return NotAvailable
	}
	return gbPrinter.Sprintf("%.1f%%", a.Value)
}

// FormatIndex formats a nullable index value to one decimal place
func FormatIndex(a Amount) string {
	if !a.Valid {
		return NotAvailable
	}
	return gbPrinter.Sprintf("%.1f", a.Value)
}

// CurrencyMetric builds a currency metric card
func CurrencyMetric(label string, a Amount) Metric {
	return Metric{Label: label, Value: FormatCurrency(a)}
}

// IndexMetric builds an index metric card
func IndexMetric(label string, a Amount) Metric {
	return Metric{Label: label, Value: FormatIndex(a)}
}

// ChangeMetric builds a percent-change metric card with direction semantics
func ChangeMetric(label string, a Amount) Metric {
	m := Metric{Label: label, Value: FormatPercent(a)}
	if a.Valid {
		m.Delta = m.Value
		if a.Value < 0 {
			m.Direction = DirectionDown
		} else {
			m.Direction = DirectionUp
		}
	}
	return m
}
