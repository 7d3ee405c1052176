package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price is one gold/silver quotation. Rows form a ledger; the current price
// is whichever row has the latest EffectiveDate.
type Price struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	GoldPrice     decimal.Decimal `json:"gold_price" gorm:"type:decimal(10,2);not null"`
	SilverPrice   decimal.Decimal `json:"silver_price" gorm:"type:decimal(10,2);not null"`
	EffectiveDate time.Time       `json:"effective_date" gorm:"autoCreateTime;not null;index"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
