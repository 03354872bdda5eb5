package display

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in      string
		want    Currency
		wantErr bool
	}{
		{"SOL", NativeAsset, false},
		{"sol", NativeAsset, false},
		{" USDC ", StableToken, false},
		{"USD", "", true},
		{"", "", true},
		{"EUR", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCurrency(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownCurrency))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmount_Validate(t *testing.T) {
	assert.NoError(t, Amount(0).Validate())
	assert.NoError(t, Amount(1e30).Validate())

	for _, a := range []Amount{-0.01, Amount(math.NaN()), Amount(math.Inf(1)), Amount(math.Inf(-1))} {
		assert.True(t, errors.Is(a.Validate(), ErrInvalidAmount), "%v", a)
	}
}

func TestAmount_ValidateFor(t *testing.T) {
	assert.NoError(t, Amount(1).ValidateFor(NativeAsset))
	assert.NoError(t, Amount(1e307).ValidateFor(StableToken))

	assert.True(t, errors.Is(Amount(1e307).ValidateFor(NativeAsset), ErrInvalidAmount))
	assert.True(t, errors.Is(Amount(-1).ValidateFor(StableToken), ErrInvalidAmount))
}
