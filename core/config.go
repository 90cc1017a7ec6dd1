package core

import (
	"fmt"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/store/db"
)

// Config vault config
type Config struct {
	App         App         `json:"app"`
	DB          db.Config   `json:"db"`
	PriceOracle PriceOracle `json:"price_oracle"`
	Yield       Yield       `json:"yield"`
	Owner       string      `json:"owner"`
	Treasury    string      `json:"treasury"`
}

// App app config
type App struct {
	Location   string `json:"location"`
	MinDeposit string `json:"min_deposit"`
}

// PriceOracle price oracle config
type PriceOracle struct {
	EndPoint string `json:"end_point"`
	// MaxAgeSeconds readings older than this are stale
	MaxAgeSeconds int64 `json:"max_age_seconds"`
	// PullIntervalSeconds poller cadence
	PullIntervalSeconds int64 `json:"pull_interval_seconds"`
}

// Yield yield engine config
type Yield struct {
	// Strategy linear or pooled
	Strategy string `json:"strategy"`
	// RateBps simulated annual rate for the linear strategy
	RateBps int64 `json:"rate_bps"`
	// UserBps initial harvest share paid to the depositor
	UserBps int64 `json:"user_bps"`
	// ProtocolBps initial harvest share paid to the treasury
	ProtocolBps int64 `json:"protocol_bps"`
	// PoolEndPoint remote venue for the pooled strategy
	PoolEndPoint string `json:"pool_end_point"`
}

// Validate validate config
func (c *Config) Validate() error {
	if c.Owner == "" {
		return fmt.Errorf("config: owner not set")
	}

	if c.Treasury == "" {
		return fmt.Errorf("config: treasury not set")
	}

	if !govalidator.IsIn(c.Yield.Strategy, "linear", "pooled") {
		return fmt.Errorf("config: unknown yield strategy %q", c.Yield.Strategy)
	}

	if c.Yield.Strategy == "pooled" && !govalidator.IsURL(c.Yield.PoolEndPoint) {
		return fmt.Errorf("config: invalid pool end point %q", c.Yield.PoolEndPoint)
	}

	if c.PriceOracle.EndPoint != "" && !govalidator.IsURL(c.PriceOracle.EndPoint) {
		return fmt.Errorf("config: invalid price oracle end point %q", c.PriceOracle.EndPoint)
	}

	if c.Yield.UserBps+c.Yield.ProtocolBps != 10000 {
		return fmt.Errorf("config: fee split must sum to 10000 bps")
	}

	return nil
}
