package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

const (
	earthRadiusKM = 6371.0
	earthRadiusM  = 6371007
)

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

// CalculateHaversineDistance returns the great-circle distance in km between two lat/lon points.
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	one := s2.LatLngFromDegrees(latOne, longOne)
	two := s2.LatLngFromDegrees(latTwo, longTwo)
	return one.Distance(two).Radians() * earthRadiusKM
}

// CalculateDistanceMeter same as CalculateHaversineDistance but in meter.
func CalculateDistanceMeter(latOne, longOne, latTwo, longTwo float64) float64 {
	one := s2.LatLngFromDegrees(latOne, longOne)
	two := s2.LatLngFromDegrees(latTwo, longTwo)
	return one.Distance(two).Radians() * earthRadiusM
}
