package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRatingStatistic(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		ratings []int
		mean    float64
		stdev   float64
	}{
		{[]int{5, 4, 4, 3, 5}, 4.2, 0.836660026534},
		{[]int{1, 5}, 3, 2.828427124746},
		{[]int{3}, 3, 0},
		{[]int{}, 0, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, r := range c.ratings {
			s.Push(float64(r))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Iterations(), len(c.ratings))
	}
}

func TestMinMax(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	for _, v := range []float64{7, 3, 11, 5} {
		s.Push(v)
	}
	is.Equal(s.Min(), 3.0)
	is.Equal(s.Max(), 11.0)
	is.Equal((&Statistic{}).String(), "n/a")
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540))
	is.True(FuzzyEqual(ZVal(99), 2.575829303549))
}

func TestWinRate(t *testing.T) {
	is := is.New(t)
	w := WinRate{Wins: 60, Games: 100}
	is.True(FuzzyEqual(w.Rate(), 0.6))
	lo, hi := w.Interval(95)
	is.True(FuzzyEqual(lo, 0.6-1.959963984540*0.048989794856))
	is.True(FuzzyEqual(hi, 0.6+1.959963984540*0.048989794856))

	lo, hi = WinRate{}.Interval(95)
	is.Equal(lo, 0.0)
	is.Equal(hi, 1.0)

	lo, hi = WinRate{Wins: 3, Games: 3}.Interval(95)
	is.Equal(hi, 1.0)
	is.Equal(lo, 1.0)
}
