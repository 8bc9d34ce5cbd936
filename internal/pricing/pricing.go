// Package pricing implements GE tax and recipe profit arithmetic.
// All money values are integer gp.
package pricing

import (
	"math"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

// GE tax: 2% of sale revenue, capped at 5,000,000 gp per unit sold.
const (
	taxDivisor    = 50 // 2%
	taxCapPerUnit = 5_000_000
)

// Mode selects which side of the spread a recipe trades on.
type Mode string

const (
	// ModeInstant crosses the spread: buy at the instant-buy (high) price,
	// sell at the instant-sell (low) price.
	ModeInstant Mode = "instant"
	// ModePatient waits on offers: buy low, sell high.
	ModePatient Mode = "patient"
)

// Valid reports whether m is a known pricing mode.
func (m Mode) Valid() bool {
	return m == ModeInstant || m == ModePatient
}

// Quote carries the two sides of an item's latest price. A nil side means
// no recent trade on that side.
type Quote struct {
	High *int64
	Low  *int64
}

// BuyPrice returns the per-unit acquisition price under mode m.
func (q Quote) BuyPrice(m Mode) (int64, bool) {
	switch m {
	case ModeInstant:
		if q.High != nil {
			return *q.High, true
		}
	case ModePatient:
		if q.Low != nil {
			return *q.Low, true
		}
	}
	return 0, false
}

// SellPrice returns the per-unit sale price under mode m.
func (q Quote) SellPrice(m Mode) (int64, bool) {
	switch m {
	case ModeInstant:
		if q.Low != nil {
			return *q.Low, true
		}
	case ModePatient:
		if q.High != nil {
			return *q.High, true
		}
	}
	return 0, false
}

// Tax returns the GE tax on selling qty units of an item at the given
// per-unit price. Coins are exempt. The result never exceeds the per-unit
// cap and never goes negative, whatever price and qty are passed.
func Tax(itemID int, price, qty int64) int64 {
	if itemID == domain.CoinsItemID || price <= 0 || qty <= 0 {
		return 0
	}

	capped := int64(math.MaxInt64)
	if qty <= math.MaxInt64/taxCapPerUnit {
		capped = taxCapPerUnit * qty
	}

	// A per-unit price at or past taxDivisor*taxCapPerUnit (250m gp) always
	// taxes at the cap. The same branch catches price*qty overflowing int64,
	// which with quantities bounded by domain.MaxLineQuantity only happens
	// at prices far beyond that threshold.
	if price >= taxDivisor*taxCapPerUnit || price > math.MaxInt64/qty {
		return capped
	}

	tax := price * qty / taxDivisor
	if tax > capped {
		return capped
	}
	return tax
}

// LineCost is the priced form of one recipe line.
type LineCost struct {
	ItemID    int   `json:"item_id"`
	Quantity  int64 `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
	Total     int64 `json:"total"`
	Tax       int64 `json:"tax,omitempty"`
}

// Breakdown is the full profit computation for one recipe under one mode.
// Complete is false when any referenced item lacks a usable price, in which
// case the totals are not meaningful.
type Breakdown struct {
	Mode     Mode       `json:"mode"`
	Inputs   []LineCost `json:"inputs,omitempty"`
	Outputs  []LineCost `json:"outputs,omitempty"`
	Revenue  int64      `json:"revenue"`
	TaxTotal int64      `json:"tax_total"`
	Cost     int64      `json:"cost"`
	Profit   int64      `json:"profit"`
	ROI      float64    `json:"roi"`
	Complete bool       `json:"complete"`
}

// Compute prices a recipe's lines against quotes and returns the profit
// breakdown. profit = revenue - tax_total - cost; roi = profit/cost*100,
// zero when cost is zero.
func Compute(mode Mode, inputs, outputs []domain.RecipeLine, quotes map[int]Quote) Breakdown {
	b := Breakdown{Mode: mode, Complete: true}

	for _, line := range inputs {
		price, ok := quotes[line.ItemID].BuyPrice(mode)
		if !ok {
			b.Complete = false
			continue
		}
		total := price * line.Quantity
		b.Cost += total
		b.Inputs = append(b.Inputs, LineCost{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: price,
			Total:     total,
		})
	}

	for _, line := range outputs {
		price, ok := quotes[line.ItemID].SellPrice(mode)
		if !ok {
			b.Complete = false
			continue
		}
		total := price * line.Quantity
		tax := Tax(line.ItemID, price, line.Quantity)
		b.Revenue += total
		b.TaxTotal += tax
		b.Outputs = append(b.Outputs, LineCost{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: price,
			Total:     total,
			Tax:       tax,
		})
	}

	if !b.Complete {
		return b
	}

	b.Profit = b.Revenue - b.TaxTotal - b.Cost
	if b.Cost > 0 {
		b.ROI = float64(b.Profit) / float64(b.Cost) * 100
	}
	return b
}
