package models

import (
	"encoding/json"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount Amount
		want   string
	}{
		{name: "missing", amount: Amount{}, want: NotAvailable},
		{name: "small", amount: NewAmount(950), want: "£950"},
		{name: "thousands", amount: NewAmount(205000), want: "£205,000"},
		{name: "millions", amount: NewAmount(1234567), want: "£1,234,567"},
		{name: "rounds to whole pounds", amount: NewAmount(199999.6), want: "£200,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCurrency(tt.amount); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name   string
		amount Amount
		want   string
	}{
		{name: "missing", amount: Amount{}, want: NotAvailable},
		{name: "positive", amount: NewAmount(3), want: "3.0%"},
		{name: "negative", amount: NewAmount(-2.45), want: "-2.5%"},
		{name: "zero", amount: NewAmount(0), want: "0.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPercent(tt.amount); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestChangeMetricDirection(t *testing.T) {
	tests := []struct {
		name   string
		amount Amount
		want   string
	}{
		{name: "negative is unfavorable", amount: NewAmount(-0.1), want: DirectionDown},
		{name: "zero is favorable", amount: NewAmount(0), want: DirectionUp},
		{name: "positive is favorable", amount: NewAmount(2.5), want: DirectionUp},
		{name: "missing has no direction", amount: Amount{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ChangeMetric("Annual Change", tt.amount)
			if m.Direction != tt.want {
				t.Fatalf("expected direction %q, got %q", tt.want, m.Direction)
			}
			if tt.amount.Valid && m.Delta == "" {
				t.Fatal("expected delta for present value")
			}
			if !tt.amount.Valid && m.Value != NotAvailable {
				t.Fatalf("expected %s for missing value, got %q", NotAvailable, m.Value)
			}
		})
	}
}

func TestAmountJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Price Amount `json:"price"`
		Empty Amount `json:"empty"`
	}{Price: NewAmount(205000)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"price":205000,"empty":null}` {
		t.Fatalf("unexpected JSON: %s", data)
	}

	var out struct {
		Price Amount `json:"price"`
		Empty Amount `json:"empty"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Price.Valid || out.Price.Value != 205000 {
		t.Fatalf("expected 205000, got %+v", out.Price)
	}
	if out.Empty.Valid {
		t.Fatalf("expected missing amount, got %+v", out.Empty)
	}
}
