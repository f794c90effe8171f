// Package infotheory computes entropies and mutual information of pairs of
// binary events from empirical probabilities.
//
// All quantities are in bits. The functions take the probability of event 1
// (p1), of event 2 (p2) and the conditional probability of event 2 given
// event 1 (p21), which is what a pair of token counts yields directly.
package infotheory

import "math"

// Epsilon is the threshold below which x*log2(x) is taken to be zero.
const Epsilon = 1e-15

// XLog2 returns x*log2(x), or 0 when x <= Epsilon.
func XLog2(x float64) float64 {
	if x > Epsilon {
		return x * math.Log2(x)
	}
	return 0
}

// BinaryEntropy is the entropy of a binary event with probability p.
func BinaryEntropy(p float64) float64 {
	return -XLog2(p) - XLog2(1-p)
}

// NotGiven returns p(2|not 1) = (p2 - p21*p1) / (1 - p1).
// It is 0 when p1 == 1, where the quantity is undefined but carries no weight.
func NotGiven(p1, p2, p21 float64) float64 {
	if p1 >= 1 {
		return 0
	}
	return (p2 - p21*p1) / (1 - p1)
}

// ConditionalEntropy returns H(2|1).
func ConditionalEntropy(p1, p2, p21 float64) float64 {
	p2n1 := NotGiven(p1, p2, p21)
	return BinaryEntropy(p21)*p1 + BinaryEntropy(p2n1)*(1-p1)
}

// MutualInformation returns I(1,2) = H(2) - H(2|1).
func MutualInformation(p1, p2, p21 float64) float64 {
	return BinaryEntropy(p2) - ConditionalEntropy(p1, p2, p21)
}
