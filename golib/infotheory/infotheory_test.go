package infotheory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func Test_XLog2(t *testing.T) {
	assert.Equal(t, 0.0, XLog2(0))
	assert.Equal(t, 0.0, XLog2(1e-16))
	assert.Equal(t, 0.0, XLog2(1))
	assert.InDelta(t, -0.5, XLog2(0.5), 1e-12)
	assert.InDelta(t, -0.5, XLog2(0.25), 1e-12)
}

func Test_BinaryEntropy(t *testing.T) {
	assert.InDelta(t, 1.0, BinaryEntropy(0.5), 1e-12)
	assert.Equal(t, 0.0, BinaryEntropy(0))
	assert.Equal(t, 0.0, BinaryEntropy(1))
	assert.InDelta(t, BinaryEntropy(0.1), BinaryEntropy(0.9), 1e-12)
}

func Test_MutualInformation(t *testing.T) {
	type tc struct {
		desc          string
		p1, p2, p21   float64
		expectedMI    float64
		expectedCondH float64
	}

	tcs := []tc{
		{
			desc: "independent events",
			p1:   0.3, p2: 0.4, p21: 0.4,
			expectedMI:    0,
			expectedCondH: BinaryEntropy(0.4),
		},
		{
			desc: "2 always follows 1 and never otherwise",
			p1:   0.5, p2: 0.5, p21: 1,
			expectedMI:    1,
			expectedCondH: 0,
		},
		{
			desc: "2 never follows 1",
			p1:   0.5, p2: 0.5, p21: 0,
			expectedMI:    1,
			expectedCondH: 0,
		},
	}

	for i, tc := range tcs {
		assert.InDelta(t, tc.expectedMI, MutualInformation(tc.p1, tc.p2, tc.p21), 1e-12, "\ncase %d: %s", i, tc.desc)
		assert.InDelta(t, tc.expectedCondH, ConditionalEntropy(tc.p1, tc.p2, tc.p21), 1e-12, "\ncase %d: %s", i, tc.desc)
	}
}

func Test_DegenerateP1(t *testing.T) {
	// every token is token 1: p(2|not 1) has no support
	mi := MutualInformation(1, 0.5, 0.5)
	require.False(t, math.IsNaN(mi))
	require.False(t, math.IsInf(mi, 0))
	assert.InDelta(t, 0, mi, 1e-12)
}

func Test_MutualInformationBounds(t *testing.T) {
	const tol = 1e-9
	rapid.Check(t, func(rt *rapid.T) {
		p1 := rapid.Float64Range(1e-6, 1-1e-6).Draw(rt, "p1")
		p21 := rapid.Float64Range(1e-6, 1-1e-6).Draw(rt, "p21")
		p2n1 := rapid.Float64Range(1e-6, 1-1e-6).Draw(rt, "p2n1")
		p2 := p21*p1 + p2n1*(1-p1)

		mi := MutualInformation(p1, p2, p21)
		h1 := BinaryEntropy(p1)
		h2 := BinaryEntropy(p2)

		if mi < -tol {
			rt.Fatalf("negative mutual information %v", mi)
		}
		if mi > math.Min(h1, h2)+tol {
			rt.Fatalf("mutual information %v exceeds min(H1=%v, H2=%v)", mi, h1, h2)
		}
	})
}
