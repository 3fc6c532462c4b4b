package shop

type Fake struct{}

//measure::measured
func (Fake) Do() {}
