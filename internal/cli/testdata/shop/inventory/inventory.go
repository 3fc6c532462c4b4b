package inventory

// Stock counts units on hand.
type Stock struct {
	units int
}

//measure::measured
func (s Stock) Count() (n int) { return s.units }
