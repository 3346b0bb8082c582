// Package stats has the small amount of statistics needed for game
// summaries and self-play reports.
package stats

import (
	"fmt"
	"math"
)

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance (Welford's method).
type Statistic struct {
	n    int
	mean float64
	m2   float64
	min  float64
	max  float64
}

func (s *Statistic) Push(val float64) {
	s.n++
	if s.n == 1 {
		s.min, s.max = val, val
	}
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
}

func (s *Statistic) Mean() float64 {
	return s.mean
}

// Variance is the sample variance; it is 0 with fewer than two values.
func (s *Statistic) Variance() float64 {
	if s.n < 2 {
		return 0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

func (s *Statistic) Min() float64   { return s.min }
func (s *Statistic) Max() float64   { return s.max }
func (s *Statistic) Iterations() int { return s.n }

func (s *Statistic) String() string {
	if s.n == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f ± %.2f (n=%d)", s.Mean(), s.Stdev(), s.n)
}

// WinRate counts wins out of games played.
type WinRate struct {
	Wins  int
	Games int
}

func (w WinRate) Rate() float64 {
	if w.Games == 0 {
		return 0
	}
	return float64(w.Wins) / float64(w.Games)
}

// Interval returns the normal-approximation confidence interval of the win
// rate at the given confidence, in percent (for example 95), clamped to
// [0, 1].
func (w WinRate) Interval(confidence float64) (lo, hi float64) {
	if w.Games == 0 {
		return 0, 1
	}
	p := w.Rate()
	margin := ZVal(confidence) * math.Sqrt(p*(1-p)/float64(w.Games))
	return math.Max(0, p-margin), math.Min(1, p+margin)
}

func (w WinRate) String() string {
	lo, hi := w.Interval(95)
	return fmt.Sprintf("%d/%d (%.1f%%, 95%% CI %.1f%%-%.1f%%)", w.Wins, w.Games,
		100*w.Rate(), 100*lo, 100*hi)
}
