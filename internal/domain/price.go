package domain

import "time"

// PriceSnapshot is one observation of an item's GE prices and daily volume.
// High is the instant-buy price, low the instant-sell price; either side may
// be missing for thinly traded items.
type PriceSnapshot struct {
	ItemID    int        `json:"item_id" db:"item_id"`
	HighPrice *int64     `json:"high_price" db:"high_price"`
	HighTime  *time.Time `json:"high_time" db:"high_time"`
	LowPrice  *int64     `json:"low_price" db:"low_price"`
	LowTime   *time.Time `json:"low_time" db:"low_time"`
	Volume    int64      `json:"volume" db:"volume"`
	FetchedAt time.Time  `json:"fetched_at" db:"fetched_at"`
}

// ItemWithPrice is an item joined with its latest snapshot, if any.
type ItemWithPrice struct {
	Item  Item           `json:"item"`
	Price *PriceSnapshot `json:"price"`
}
