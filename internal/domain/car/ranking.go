package car

import "sort"

// Score reproduces the home-page ranking: rated cars score rating*1000 plus
// rent, unrated cars fall back to availability*100000 plus rent so that an
// available unrated car still outranks a booked one.
func Score(c *Car) float64 {
	if c.Rating() > 0 {
		return c.Rating()*1000 + c.DailyRate()
	}
	avail := 0.0
	if c.Status() == StatusAvailable {
		avail = 1.0
	}
	return avail*100000 + c.DailyRate()
}

// TopRated returns the n highest-scoring cars, best first. The input slice
// is not modified.
func TopRated(cars []*Car, n int) []*Car {
	ranked := make([]*Car, len(cars))
	copy(ranked, cars)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i]) > Score(ranked[j])
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
