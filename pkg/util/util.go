package util

import (
	"math"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}

// PercentToFraction converts a value given in percent of the map extent (0-100) into the
// normalized map fraction (0.0-1.0) used by the route model.
func PercentToFraction(val float64) float64 {
	return val * 0.01
}
