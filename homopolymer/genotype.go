package homopolymer

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat/distuv"
)

// Stutter describes how often a read reports a homopolymer length different from the
// template it was sequenced from. The size of the error is Poisson distributed.
type Stutter struct {
	Prob   float64 // probability that a read length differs from its allele
	Lambda float64 // mean of the error size distribution
}

// DefaultStutter is used when no stutter model is given.
var DefaultStutter = Stutter{Prob: 0.1, Lambda: 0.8}

// Genotype is a diploid pair of homopolymer lengths with Alleles[0] <= Alleles[1].
type Genotype struct {
	Alleles [2]int
	LogLik  float64
}

func (g Genotype) String() string {
	return fmt.Sprintf("%d/%d", g.Alleles[0], g.Alleles[1])
}

// BestGenotype returns the most likely diploid genotype given the homopolymer lengths
// observed in reads. Candidate alleles are the observed lengths. ok is false when
// lengths is empty.
func BestGenotype(lengths []int, s Stutter) (best Genotype, ok bool) {
	alleles := unique(lengths)
	if len(alleles) == 0 {
		return best, false
	}
	best.LogLik = math.Inf(-1)
	for _, g := range candidates(alleles) {
		ll := s.LogLikelihood(lengths, g)
		if ll > best.LogLik {
			best = Genotype{Alleles: g, LogLik: ll}
		}
	}
	return best, true
}

// LogLikelihood returns the log likelihood of observing lengths from genotype g. Each
// read is equally likely to come from either allele.
func (s Stutter) LogLikelihood(lengths []int, g [2]int) float64 {
	var ll float64
	for _, l := range lengths {
		ll += math.Log(0.5*s.readLikelihood(l, g[0]) + 0.5*s.readLikelihood(l, g[1]))
	}
	return ll
}

// readLikelihood is the probability that a read of length l came from allele a. The
// error may shorten or lengthen the run with equal probability.
func (s Stutter) readLikelihood(l, a int) float64 {
	diff := l - a
	if diff < 0 {
		diff = -diff
	}
	if diff == 0 {
		return 1 - s.Prob
	}
	p := distuv.Poisson{Lambda: s.Lambda}
	return (s.Prob / 2) * p.Prob(float64(diff))
}

func unique(lengths []int) []int {
	ans := slices.Clone(lengths)
	slices.Sort(ans)
	return slices.Compact(ans)
}

// candidates returns every homozygous and heterozygous pair of alleles.
func candidates(alleles []int) [][2]int {
	var ans [][2]int
	for i := range alleles {
		for j := i; j < len(alleles); j++ {
			ans = append(ans, [2]int{alleles[i], alleles[j]})
		}
	}
	return ans
}
