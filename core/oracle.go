package core

import (
	"context"
	"time"
)

// PriceData one oracle reading: a BTC price at 1e8 scale plus the feed's
// own timestamp. Consumers judge staleness per reading; readings are never
// trusted across ledger calls.
type PriceData struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Price     Amount    `sql:"type:decimal(65,0)" json:"price"`
	Timestamp int64     `sql:"index:idx_prices_timestamp" json:"timestamp"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// IPriceStore price store interface
type IPriceStore interface {
	Save(ctx context.Context, price *PriceData) error
	Latest(ctx context.Context) (*PriceData, error)
}

// IPriceOracleService is the price oracle port plus the feed-pulling side
// used by the poller worker.
type IPriceOracleService interface {
	GetPrice(ctx context.Context) (*PriceData, error)
	MaxAge() time.Duration
	PullPrice(ctx context.Context, t time.Time) (*PriceData, error)

	// SetEndpoint repoints the feed url at runtime. Owner only.
	SetEndpoint(ctx context.Context, operator, endpoint string) error
}
