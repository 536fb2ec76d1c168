package geo

import (
	"math"
)

// web mercator sphere radius (WGS84 semi-major axis)
const mercatorRadius = 6378137.0

func MercatorX(lon float64) float64 {
	return degreeToRadians(lon) * mercatorRadius
}

func MercatorY(lat float64) float64 {
	return math.Log(math.Tan(math.Pi/4+degreeToRadians(lat)/2)) * mercatorRadius
}

// MapExtent is the lat/lon bounding box of a loaded map.
type MapExtent struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

func NewMapExtent() MapExtent {
	return MapExtent{
		MinLat: math.Inf(1),
		MinLon: math.Inf(1),
		MaxLat: math.Inf(-1),
		MaxLon: math.Inf(-1),
	}
}

func (e *MapExtent) Extend(lat, lon float64) {
	e.MinLat = math.Min(e.MinLat, lat)
	e.MinLon = math.Min(e.MinLon, lon)
	e.MaxLat = math.Max(e.MaxLat, lat)
	e.MaxLon = math.Max(e.MaxLon, lon)
}

func (e MapExtent) IsEmpty() bool {
	return e.MinLat > e.MaxLat || e.MinLon > e.MaxLon
}

/*
MercatorProjection maps lat/lon into normalized map-fraction units.

x = (mercX(lon) - mercX(minLon)) / scale
y = (mercY(lat) - mercY(minLat)) / scale

scale is the shorter side of the projected extent, so the shorter side spans [0,1].
One normalized unit equals metricScale meters on the ground (mercator stretch corrected with
cos of the extent center latitude).
*/
type MercatorProjection struct {
	minX        float64
	minY        float64
	scale       float64
	metricScale float64
}

func NewMercatorProjection(extent MapExtent) MercatorProjection {
	if extent.IsEmpty() {
		return MercatorProjection{scale: 1, metricScale: 1}
	}

	minX := MercatorX(extent.MinLon)
	minY := MercatorY(extent.MinLat)
	dx := MercatorX(extent.MaxLon) - minX
	dy := MercatorY(extent.MaxLat) - minY

	scale := math.Min(dx, dy)
	if scale <= 0 {
		scale = math.Max(dx, dy)
	}
	if scale <= 0 {
		// single point map
		scale = 1
	}

	centerLat := (extent.MinLat + extent.MaxLat) / 2
	return MercatorProjection{
		minX:        minX,
		minY:        minY,
		scale:       scale,
		metricScale: scale * math.Cos(degreeToRadians(centerLat)),
	}
}

func (p MercatorProjection) Project(lat, lon float64) (float64, float64) {
	x := (MercatorX(lon) - p.minX) / p.scale
	y := (MercatorY(lat) - p.minY) / p.scale
	return x, y
}

// MetricScale converts a distance in normalized units into meters.
func (p MercatorProjection) MetricScale() float64 {
	return p.metricScale
}
