package number

import (
	"math/big"
	"testing"

	"github.com/bmizerany/assert"
)

func TestFromBig(t *testing.T) {
	data := map[string]string{
		"100000000":     "1",
		"50000000":      "0.5",
		"6500000000000": "65000",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			i, _ := new(big.Int).SetString(k, 10)
			d := FromBig(i, CollateralDecimals)
			assert.Equal(t, v, d.String(), "should render fixed point")
		})
	}
}

func TestToBigRoundTrip(t *testing.T) {
	d := Decimal("1.23456789")
	i := ToBig(d, CollateralDecimals)
	assert.Equal(t, "123456789", i.String())
	assert.Equal(t, d.String(), FromBig(i, CollateralDecimals).String())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "216.66", Percent(21666).String())
	assert.Equal(t, "150", Percent(15000).String())
}

func TestCeil(t *testing.T) {
	data := map[string]string{
		"0.10304":     "0.11",
		"0.100000001": "0.11",
		"0.108":       "0.11",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			c := Ceil(Decimal(k), 2)
			assert.Equal(t, v, c.String(), "should be ceil")
		})
	}
}
