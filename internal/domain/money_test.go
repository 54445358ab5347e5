package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_AddIsExact(t *testing.T) {
	sum := MustParseMoney("0.1").Add(MustParseMoney("0.2"))
	assert.True(t, sum.Equal(MustParseMoney("0.3")))
	assert.Equal(t, "0.30", sum.String())
}

func TestMoney_Times(t *testing.T) {
	assert.Equal(t, "59.97", MustParseMoney("19.99").Times(3).String())
	assert.True(t, MustParseMoney("19.99").Times(0).IsZero())
}

func TestMoney_StringRoundsToCents(t *testing.T) {
	assert.Equal(t, "10.00", MustParseMoney("10").String())
	assert.Equal(t, "0.01", MustParseMoney("0.005").String())
}

func TestMoney_JSONNumberRoundTrip(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`109.95`), &m))
	assert.Equal(t, "109.95", m.String())

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `109.95`, string(out))
}

func TestMoney_AcceptsQuotedString(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"22.3"`), &m))
	assert.True(t, m.Equal(MustParseMoney("22.30")))
}

func TestMoney_RejectsGarbage(t *testing.T) {
	var m Money
	assert.Error(t, json.Unmarshal([]byte(`"twelve"`), &m))
}

func TestParseMoney_Invalid(t *testing.T) {
	_, err := ParseMoney("1,50")
	assert.Error(t, err)
	assert.Panics(t, func() { MustParseMoney("x") })
}

func TestMoney_ZeroValue(t *testing.T) {
	var m Money
	assert.True(t, m.IsZero())
	assert.False(t, m.IsNegative())
	assert.Equal(t, "0.00", m.String())
}
