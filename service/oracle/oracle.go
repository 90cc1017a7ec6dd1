package oracle

import (
	"context"
	"fmt"
	"time"

	"vault/core"
	"vault/pkg/number"
	"vault/pkg/resthttp"

	"github.com/asaskevich/govalidator"
	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const pullCacheKey = "ticker"

type priceService struct {
	config        *core.Config
	system        *core.System
	priceStore    core.IPriceStore
	propertyStore property.Store
	cache         gcache.Cache
	sf            *singleflight.Group
}

// New new oracle price service
func New(config *core.Config,
	system *core.System,
	priceStore core.IPriceStore,
	propertyStore property.Store) core.IPriceOracleService {
	return &priceService{
		config:        config,
		system:        system,
		priceStore:    priceStore,
		propertyStore: propertyStore,
		cache:         gcache.New(8).LRU().Build(),
		sf:            &singleflight.Group{},
	}
}

// ticker is the feed payload. Price is a human decimal; it becomes a fixed
// point integer before it touches the ledger.
type ticker struct {
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"ts"`
}

func (s *priceService) GetPrice(ctx context.Context) (*core.PriceData, error) {
	return s.priceStore.Latest(ctx)
}

func (s *priceService) MaxAge() time.Duration {
	return time.Duration(s.config.PriceOracle.MaxAgeSeconds) * time.Second
}

func (s *priceService) endpoint(ctx context.Context) (string, error) {
	v, err := s.propertyStore.Get(ctx, core.PropertyOracleEndpoint)
	if err != nil {
		return "", err
	}

	if url := v.String(); url != "" {
		return url, nil
	}

	return s.config.PriceOracle.EndPoint, nil
}

// SetEndpoint repoints the feed url. The next pull uses the new feed.
func (s *priceService) SetEndpoint(ctx context.Context, operator, endpoint string) error {
	if !s.system.IsOwner(operator) {
		return core.ErrUnauthorized
	}
	if !govalidator.IsURL(endpoint) {
		return fmt.Errorf("oracle: invalid endpoint %q", endpoint)
	}

	if err := s.propertyStore.Save(ctx, core.PropertyOracleEndpoint, endpoint); err != nil {
		return err
	}

	s.cache.Remove(pullCacheKey)
	return nil
}

// PullPrice fetches one reading from the feed and persists it. Repeat pulls
// within the poll interval are served from a short lived cache; persisted
// readings carry the feed's own timestamp so consumers judge staleness
// themselves.
func (s *priceService) PullPrice(ctx context.Context, t time.Time) (*core.PriceData, error) {
	log := logger.FromContext(ctx).WithField("service", "oracle")

	if v, err := s.cache.Get(pullCacheKey); err == nil {
		return v.(*core.PriceData), nil
	}

	v, err, _ := s.sf.Do(pullCacheKey, func() (interface{}, error) {
		endpoint, err := s.endpoint(ctx)
		if err != nil {
			return nil, err
		}

		url := fmt.Sprintf("%s/api/v1/ticker/%s?ts=%d", endpoint, core.AssetCollateral, t.UTC().Unix())
		log.Debugln("pull price:", url)

		resp, err := resthttp.Request(ctx).Get(url)
		if err != nil {
			return nil, err
		}

		var tk ticker
		if err := resthttp.ParseResponse(resp, &tk); err != nil {
			return nil, err
		}

		price := &core.PriceData{
			Price:     core.NewAmountFromBig(number.ToBig(tk.Price, number.PriceDecimals)),
			Timestamp: tk.Timestamp,
		}
		if err := s.priceStore.Save(ctx, price); err != nil {
			return nil, err
		}

		ttl := time.Duration(s.config.PriceOracle.PullIntervalSeconds) * time.Second
		if ttl > 0 {
			_ = s.cache.SetWithExpire(pullCacheKey, price, ttl)
		}

		return price, nil
	})

	if err != nil {
		log.WithError(err).Errorln("pull price failed")
		return nil, err
	}

	return v.(*core.PriceData), nil
}
