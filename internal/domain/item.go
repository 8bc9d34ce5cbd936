package domain

import "time"

// CoinsItemID is the game's currency item. Coins never incur GE tax.
const CoinsItemID = 995

// Item is a tradeable game item, sourced from the prices API mapping.
type Item struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Members   bool      `json:"members" db:"members"`
	BuyLimit  int       `json:"buy_limit" db:"buy_limit"`
	Examine   string    `json:"examine,omitempty" db:"examine"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
