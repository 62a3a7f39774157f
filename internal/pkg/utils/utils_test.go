package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   *big.Int
		decimals uint8
		want     string
	}{
		{"nil", nil, 18, "0"},
		{"zero", big.NewInt(0), 18, "0"},
		{"no decimals", big.NewInt(42), 0, "42"},
		{"fraction", big.NewInt(1234500000000000000), 18, "1.2345"},
		{"whole", big.NewInt(2000000000000000000), 18, "2"},
		{"leading zeros in fraction", big.NewInt(1000000000000001), 18, "0.001000000000000001"},
		{"negative", big.NewInt(-1500), 3, "-1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUnits(tt.amount, tt.decimals))
		})
	}
}

func TestFormatGasPrice(t *testing.T) {
	assert.Equal(t, "225 gwei", FormatGasPrice(225000000000))
	assert.Equal(t, "1.5 gwei", FormatGasPrice(1500000000))
	assert.Equal(t, "0 gwei", FormatGasPrice(0))
}

func TestBatchStrings(t *testing.T) {
	assert.Equal(t, [][]string{}, BatchStrings(nil, 2))
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, BatchStrings([]string{"a", "b", "c"}, 2))
	assert.Equal(t, [][]string{{"a", "b", "c"}}, BatchStrings([]string{"a", "b", "c"}, 0))
}
