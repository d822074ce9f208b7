package model

// Bands holds one Bollinger Bands triple (latest bar only).
type Bands struct {
	Lower  float64
	Middle float64
	Upper  float64
}

// Width returns the distance between the upper and lower band.
func (b Bands) Width() float64 {
	return b.Upper - b.Lower
}
