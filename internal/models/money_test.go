package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := MustMoney("5.99")

	body, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "5.99", string(body), "money should marshal as a plain number")

	var decoded Money
	require.NoError(t, json.Unmarshal([]byte("5.99"), &decoded))
	assert.Zero(t, m.Cmp(decoded))

	require.NoError(t, json.Unmarshal([]byte(`"5.99"`), &decoded))
	assert.Zero(t, m.Cmp(decoded), "quoted values should parse too")
}

func TestMoneyRepeatedAdditionHasNoDrift(t *testing.T) {
	// 0.1 added ten times is exactly 1 with decimal arithmetic; float64
	// would land on 0.9999999999999999.
	sum := ZeroMoney
	tenth := MustMoney("0.1")
	for i := 0; i < 10; i++ {
		sum = sum.Add(tenth)
	}
	assert.Zero(t, sum.Cmp(MustMoney("1")))
	assert.Equal(t, "1.00", sum.StringFixed())
}

func TestMoneyMulInt(t *testing.T) {
	assert.Equal(t, "45.98", MustMoney("22.99").MulInt(2).String())
	assert.True(t, MustMoney("9.99").MulInt(0).IsZero())
}

func TestMoneyCmp(t *testing.T) {
	assert.Equal(t, -1, MustMoney("49.99").Cmp(MustMoney("50.00")))
	assert.Equal(t, 0, MustMoney("50").Cmp(MustMoney("50.00")))
	assert.Equal(t, 1, MustMoney("50.01").Cmp(MustMoney("50.00")))
}

func TestMoneyFromStringRejectsGarbage(t *testing.T) {
	_, err := MoneyFromString("not-a-number")
	require.Error(t, err)

	_, err = MoneyFromString("")
	require.Error(t, err)
}

func TestMoneyIsNegative(t *testing.T) {
	assert.True(t, MustMoney("-0.01").IsNegative())
	assert.False(t, ZeroMoney.IsNegative())
	assert.False(t, MustMoney("0.01").IsNegative())
}
