package tax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
)

func TestSplitGrossStandardRate(t *testing.T) {
	split, err := SplitGross(116, CodeStandard)
	require.NoError(t, err)
	require.Equal(t, 100.0, split.Net)
	require.Equal(t, 16.0, split.Tax)
	require.Equal(t, 116.0, split.Gross)
}

func TestSplitNetStandardRate(t *testing.T) {
	split, err := SplitNet(250, CodeStandard)
	require.NoError(t, err)
	require.Equal(t, 250.0, split.Net)
	require.Equal(t, 40.0, split.Tax)
	require.Equal(t, 290.0, split.Gross)
}

func TestZeroRatedAndExempted(t *testing.T) {
	for _, code := range []Code{CodeZeroRated, CodeExempted} {
		split, err := SplitGross(99.99, code)
		require.NoError(t, err)
		require.Equal(t, 99.99, split.Net)
		require.Equal(t, 0.0, split.Tax)
	}
}

func TestUnknownCode(t *testing.T) {
	_, err := SplitGross(10, Code("8%"))
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestSplitGrossRoundsToCents(t *testing.T) {
	split, err := SplitGross(100, CodeStandard)
	require.NoError(t, err)
	// 100/1.16 = 86.2068... rounds to 86.21, tax is the remainder.
	require.Equal(t, 86.21, split.Net)
	require.Equal(t, 13.79, split.Tax)
	require.Equal(t, 100.0, split.Net+split.Tax)
}

func TestAddAccumulates(t *testing.T) {
	a := Split{Net: 10.10, Tax: 1.62, Gross: 11.72}
	b := Split{Net: 5.05, Tax: 0.81, Gross: 5.86}
	sum := a.Add(b)
	require.Equal(t, 15.15, sum.Net)
	require.Equal(t, 2.43, sum.Tax)
	require.Equal(t, 17.58, sum.Gross)
}

func TestEqualAtCurrencyPrecision(t *testing.T) {
	require.True(t, Equal(0.1+0.2, 0.3))
	require.False(t, Equal(0.30, 0.31))
}
