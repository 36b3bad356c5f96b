package model

import "math"

// Precision is the number of decimals derived values are kept to.
const Precision = 5

var precisionScale = math.Pow(10, Precision)

// Round rounds v to Precision decimals.
func Round(v float64) float64 {
	return math.Round(v*precisionScale) / precisionScale
}
