package decision

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowoa/domain/prediction"
	"gowoa/internal/format"
)

func f(v float64) *float64 { return &v }

func TestEvaluateMalignantScenario(t *testing.T) {
	d := Evaluate(Input{
		DistanceToBenign:    f(2.0),
		DistanceToMalignant: f(1.0),
		Tau:                 f(0.6),
		Probabilities:       map[string]float64{"Benign": 0.3, "Malignant": 0.7},
		Reported:            prediction.Malignant,
	})

	require.True(t, d.Ratio.Defined)
	assert.InDelta(t, 0.5, d.Ratio.Value, 1e-12)
	assert.InDelta(t, 1.2, d.MalignantMargin.Value, 1e-12)
	assert.InDelta(t, 0.8333333333, d.BenignMargin.Value, 1e-9)
	assert.Equal(t, prediction.Malignant, d.RuleLabel)
	assert.Equal(t, "Check (Malignant if dM ≤ τ·dB): dM=1.0000 ≤ τ·dB=1.2000 → Malignant", d.Verdict)

	require.NotNil(t, d.MatchesProbability)
	assert.True(t, *d.MatchesProbability)
	assert.Empty(t, d.Note)
	assert.InDelta(t, 0.7, d.Confidence.Value, 1e-12)
	require.NotNil(t, d.ReportedMatchesRule)
	assert.True(t, *d.ReportedMatchesRule)

	assert.Equal(t, "20.000%", d.MalignantMargin.Percent(3))
	assert.Equal(t, "-16.667%", d.BenignMargin.Percent(3))
}

func TestEvaluateBenignWithDisagreement(t *testing.T) {
	d := Evaluate(Input{
		DistanceToBenign:    f(1.0),
		DistanceToMalignant: f(3.0),
		Tau:                 f(1.0),
		Probabilities:       map[string]float64{"Benign": 0.2, "Malignant": 0.8},
	})

	assert.Equal(t, prediction.Benign, d.RuleLabel)
	assert.Contains(t, d.Verdict, "dM=3.0000 > τ·dB=1.0000 → Benign")
	require.NotNil(t, d.MatchesProbability)
	assert.False(t, *d.MatchesProbability)
	assert.Equal(t, DisagreementNote, d.Note)
	assert.Equal(t, prediction.Malignant, d.ProbabilityLabel)
	assert.Nil(t, d.ReportedMatchesRule)
}

func TestEvaluateUndefinedPrerequisites(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"zero benign distance", Input{DistanceToBenign: f(0), DistanceToMalignant: f(1), Tau: f(1)}},
		{"zero tau", Input{DistanceToBenign: f(1), DistanceToMalignant: f(1), Tau: f(0)}},
		{"negative tau", Input{DistanceToBenign: f(1), DistanceToMalignant: f(1), Tau: f(-1)}},
		{"missing tau", Input{DistanceToBenign: f(1), DistanceToMalignant: f(1)}},
		{"missing distances", Input{Tau: f(1)}},
		{"nan distance", Input{DistanceToBenign: f(math.NaN()), DistanceToMalignant: f(1), Tau: f(1)}},
		{"infinite malignant distance", Input{DistanceToBenign: f(1), DistanceToMalignant: f(math.Inf(1)), Tau: f(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Probabilities = map[string]float64{"Benign": 0.6, "Malignant": 0.4}
			d := Evaluate(tt.in)
			assert.False(t, d.Ratio.Defined)
			assert.False(t, d.MalignantMargin.Defined)
			assert.False(t, d.BenignMargin.Defined)
			assert.Empty(t, d.Verdict)
			assert.Empty(t, d.RuleLabel)
			assert.Nil(t, d.MatchesProbability)
			assert.Equal(t, format.Unavailable, d.Ratio.Format(6))
			assert.Equal(t, format.Unavailable, d.MalignantMargin.Percent(3))
			assert.True(t, d.Confidence.Defined, "confidence does not depend on the rule")
		})
	}
}

func TestEvaluateZeroMalignantDistance(t *testing.T) {
	d := Evaluate(Input{DistanceToBenign: f(2), DistanceToMalignant: f(0), Tau: f(0.5)})
	assert.Equal(t, prediction.Malignant, d.RuleLabel)
	assert.True(t, d.Ratio.Defined)
	assert.Equal(t, 0.0, d.Ratio.Value)
	assert.True(t, d.BenignMargin.Defined)
	assert.False(t, d.MalignantMargin.Defined)
}

func TestEvaluateFromReportedRatio(t *testing.T) {
	d := Evaluate(Input{Ratio: f(0.6667), Tau: f(1.0)})
	assert.Equal(t, prediction.Malignant, d.RuleLabel)
	assert.InDelta(t, 1.0/0.6667, d.MalignantMargin.Value, 1e-12)
	assert.Contains(t, d.Verdict, "ratio=0.6667 ≤ τ=1.0000")
	assert.False(t, d.Confidence.Defined)
}

func TestEvaluateIsPureAndMarginsInvert(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		in := Input{
			DistanceToBenign:    f(rng.Float64()*10 + 1e-3),
			DistanceToMalignant: f(rng.Float64()*10 + 1e-3),
			Tau:                 f(rng.Float64()*2 + 1e-3),
		}
		first := Evaluate(in)
		again := Evaluate(in)
		assert.Equal(t, first, again)

		require.True(t, first.MalignantMargin.Defined)
		require.True(t, first.BenignMargin.Defined)
		tau := *in.Tau
		assert.InEpsilon(t, tau, first.Ratio.Value*first.MalignantMargin.Value, 1e-9)
		assert.InEpsilon(t, tau, first.Ratio.Value/first.BenignMargin.Value, 1e-9)

		malignant := *in.DistanceToMalignant <= tau**in.DistanceToBenign
		assert.Equal(t, malignant, first.RuleLabel == prediction.Malignant)
	}
}

func TestProbabilityTieFavorsBenign(t *testing.T) {
	label, conf := probabilityArgmax(map[string]float64{"Benign": 0.5, "Malignant": 0.5})
	assert.Equal(t, prediction.Benign, label)
	assert.Equal(t, 0.5, conf.Value)

	label, conf = probabilityArgmax(nil)
	assert.Empty(t, label)
	assert.False(t, conf.Defined)
}

func TestNonFiniteInputsDegradeToUnavailable(t *testing.T) {
	d := Evaluate(Input{
		DistanceToBenign:    f(math.NaN()),
		DistanceToMalignant: f(1.0),
		Tau:                 f(0.6),
		Probabilities:       map[string]float64{"Benign": math.NaN(), "Malignant": 0.4},
	})
	assert.False(t, d.Ratio.Defined)
	assert.False(t, d.MalignantMargin.Defined)
	assert.False(t, d.BenignMargin.Defined)
	assert.Empty(t, d.RuleLabel)
	assert.Nil(t, d.MatchesProbability)
	assert.Equal(t, format.Unavailable, d.Ratio.Format(6))

	assert.Equal(t, prediction.Malignant, d.ProbabilityLabel)
	assert.Equal(t, 0.4, d.Confidence.Value)

	d = Evaluate(Input{DistanceToBenign: f(2), DistanceToMalignant: f(math.Inf(1)), Tau: f(0.6)})
	assert.False(t, d.Ratio.Defined)

	label, conf := probabilityArgmax(map[string]float64{"Benign": math.NaN(), "Malignant": math.Inf(1)})
	assert.Empty(t, label)
	assert.False(t, conf.Defined)
}
