package format

import (
	"encoding/json"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatBands(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		precision int
		want      string
	}{
		{"fixed point", 3.14159265, 4, "3.1416"},
		{"negative fixed", -12.5, 2, "-12.50"},
		{"tiny negative collapses to signed zero", -0.0000001, 6, "-0.000000"},
		{"tiny positive collapses to zero", 0.0000004, 6, "0.000000"},
		{"positive zero", 0, 6, "0.000000"},
		{"boundary stays fixed", 0.000001, 6, "0.000001"},
		{"large uses scientific", 2_500_000.123456, 3, "2.500e+6"},
		{"exact threshold is scientific", 1_000_000, 2, "1.00e+6"},
		{"negative large", -7.25e12, 2, "-7.25e+12"},
		{"just under threshold", 999_999.5, 1, "999999.5"},
		{"zero precision", 2.6, 0, "3"},
		{"negative precision clamps", 2.6, -3, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Float(tt.value, tt.precision))
		})
	}
}

func TestFloatNonFinite(t *testing.T) {
	assert.Equal(t, NaN, Float(math.NaN(), 6))
	assert.Equal(t, PosInf, Float(math.Inf(1), 6))
	assert.Equal(t, NegInf, Float(math.Inf(-1), 6))
	assert.NotEqual(t, Float(math.Inf(1), 6), Float(math.Inf(-1), 6))
}

func TestNegativeZero(t *testing.T) {
	negZero := math.Copysign(0, -1)
	require.True(t, IsNegativeZero(negZero))
	require.False(t, IsNegativeZero(0))
	require.False(t, IsNegativeZero(-1))

	for p := 0; p <= 8; p++ {
		pos := Float(0, p)
		assert.Equal(t, "-"+pos, Float(negZero, p), "precision %d", p)
		assert.NotContains(t, pos, "-")
	}
}

func TestFixedBandRoundTrips(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		p := rng.Intn(9)
		lo := math.Pow(10, -float64(p))
		v := lo + rng.Float64()*(scientificThreshold-lo)
		if rng.Intn(2) == 0 {
			v = -v
		}

		out := Float(v, p)
		back, err := strconv.ParseFloat(out, 64)
		require.NoError(t, err, out)
		assert.LessOrEqual(t, math.Abs(back-v), math.Pow(10, -float64(p)), "v=%v p=%d out=%s", v, p, out)
	}
}

func TestValueIntegersAreExact(t *testing.T) {
	big := "123456789012345678901234567890"
	for _, p := range []int{0, 2, 6, 12} {
		assert.Equal(t, big, Value(big, p))
		assert.Equal(t, big, Value(json.Number(big), p))
		assert.Equal(t, "-42", Value(-42, p))
		assert.Equal(t, "9007199254740993", Value(int64(9007199254740993), p))
		assert.Equal(t, "18446744073709551615", Value(uint64(math.MaxUint64), p))
	}
	assert.Equal(t, "1000000", Value(1000000, 3), "integers never switch to scientific")
}

func TestStringTrimsBeforeIntegerCheck(t *testing.T) {
	assert.Equal(t, "42", String(" 42", 6))
	assert.Equal(t, "-7", String("-7\n", 6))
	assert.Equal(t, "42", Value(" 42 ", 3))
	assert.Equal(t, "1.500", String(" 1.5 ", 3))
	assert.Equal(t, " Dense ", String(" Dense ", 3), "non-numeric text is returned unchanged")
	assert.Equal(t, NaN, String("NaN", 3))
	assert.Equal(t, PosInf, String("+Inf", 3))
}

func TestValueMixedInputs(t *testing.T) {
	assert.Equal(t, Absent, Value(nil, 6))
	var missing *float64
	assert.Equal(t, Absent, Value(missing, 6))
	present := 0.5
	assert.Equal(t, "0.500", Value(&present, 3))
	assert.Equal(t, "1.250000", Value(json.Number("1.25"), 6))
	assert.Equal(t, "1.500", Value("1.5", 3))
	assert.Equal(t, "Dense", Value("Dense", 3))
	assert.Equal(t, "true", Value(true, 3))
	assert.Equal(t, "0.25", Value(float32(0.25), 2))
	assert.NotEqual(t, Value(nil, 6), Value(0.0, 6))
}

func TestValueIsDeterministic(t *testing.T) {
	inputs := []any{1.0 / 3.0, -0.0000001, 2_500_000.123456, "77", json.Number("3.5")}
	for _, in := range inputs {
		first := Value(in, 5)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Value(in, 5))
		}
	}
}

func TestMetricAndPercent(t *testing.T) {
	assert.Equal(t, Unavailable, Metric(1.2, false, 4))
	assert.Equal(t, "1.2000", Metric(1.2, true, 4))
	assert.Equal(t, "20.000%", Percent(20, 3))
	assert.Equal(t, NaN, Percent(math.NaN(), 3))
}

func TestTrimExponent(t *testing.T) {
	assert.Equal(t, "1.5e+6", trimExponent("1.5e+06"))
	assert.Equal(t, "1.5e-10", trimExponent("1.5e-10"))
	assert.Equal(t, "1e+100", trimExponent("1e+100"))
	assert.Equal(t, "2e+0", trimExponent("2e+00"))
}
