package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jewelstore/models"
)

const (
	priceMaxDigits      = 10
	priceDecimalPlaces  = 2
	priceLedgerOrdering = "effective_date DESC, id DESC"
)

// PriceLedger is the append-only history of gold and silver quotations.
type PriceLedger struct {
	db *gorm.DB
}

func NewPriceLedger(db *gorm.DB) *PriceLedger {
	return &PriceLedger{db: db}
}

// PriceInput carries the amounts of a quotation. On update, nil fields are
// left unchanged.
type PriceInput struct {
	GoldPrice   *decimal.Decimal
	SilverPrice *decimal.Decimal
}

var priceFieldLabels = map[string]string{
	"gold_price":   "Gold price",
	"silver_price": "Silver price",
}

func checkAmount(verr *ValidationError, field string, amount *decimal.Decimal, required bool) {
	if amount == nil {
		if required {
			verr.Add(field, msgRequired)
		}
		return
	}
	if !amount.IsPositive() {
		verr.Add(field, priceFieldLabels[field]+" must be greater than zero.")
		return
	}
	if !amount.Equal(amount.Truncate(priceDecimalPlaces)) {
		verr.Add(field, fmt.Sprintf("Ensure that there are no more than %d decimal places.", priceDecimalPlaces))
	}
	// digits left of the point may use whatever the two decimals leave over
	limit := decimal.New(1, priceMaxDigits-priceDecimalPlaces)
	if amount.GreaterThanOrEqual(limit) {
		verr.Add(field, fmt.Sprintf("Ensure that there are no more than %d digits in total.", priceMaxDigits))
	}
}

// Create appends a quotation. Both amounts must be present and positive; all
// failing fields are reported in one ValidationError.
func (l *PriceLedger) Create(ctx context.Context, in PriceInput) (*models.Price, error) {
	var verr ValidationError
	checkAmount(&verr, "gold_price", in.GoldPrice, true)
	checkAmount(&verr, "silver_price", in.SilverPrice, true)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	price := models.Price{GoldPrice: *in.GoldPrice, SilverPrice: *in.SilverPrice}
	if err := l.db.WithContext(ctx).Create(&price).Error; err != nil {
		return nil, fmt.Errorf("failed to create price: %w", err)
	}
	return &price, nil
}

// List returns the ledger newest first.
func (l *PriceLedger) List(ctx context.Context, req PageRequest) (*Page[models.Price], error) {
	query := l.db.WithContext(ctx).Model(&models.Price{}).Order(priceLedgerOrdering)
	page, err := paginate[models.Price](query, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	return page, nil
}

// Current returns the quotation with the latest effective date. ok is false
// when the ledger is empty; that is not an error.
func (l *PriceLedger) Current(ctx context.Context) (price *models.Price, ok bool, err error) {
	var row models.Price
	err = l.db.WithContext(ctx).Order(priceLedgerOrdering).Limit(1).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load current price: %w", err)
	}
	return &row, true, nil
}

func (l *PriceLedger) Get(ctx context.Context, id uint) (*models.Price, error) {
	return findPrice(l.db.WithContext(ctx), id)
}

func findPrice(db *gorm.DB, id uint) (*models.Price, error) {
	var price models.Price
	if err := db.First(&price, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find price: %w", err)
	}
	return &price, nil
}

// Update corrects the amounts of an existing quotation. The effective date
// is never modified.
func (l *PriceLedger) Update(ctx context.Context, id uint, in PriceInput) (*models.Price, error) {
	var verr ValidationError
	checkAmount(&verr, "gold_price", in.GoldPrice, false)
	checkAmount(&verr, "silver_price", in.SilverPrice, false)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	var price *models.Price
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findPrice(tx, id)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if in.GoldPrice != nil {
			updates["gold_price"] = *in.GoldPrice
		}
		if in.SilverPrice != nil {
			updates["silver_price"] = *in.SilverPrice
		}
		if len(updates) > 0 {
			if err := tx.Model(found).Updates(updates).Error; err != nil {
				return err
			}
		}
		price, err = findPrice(tx, id)
		return err
	})
	if err != nil {
		return nil, passThrough(err, "failed to update price")
	}
	return price, nil
}

func (l *PriceLedger) Delete(ctx context.Context, id uint) error {
	result := l.db.WithContext(ctx).Delete(&models.Price{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete price: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
