package geo

import "math"

// Unit represents a supported distance unit
type Unit string

const (
	// Miles is statute miles
	Miles Unit = "miles"
	// Kilometers is kilometers
	Kilometers Unit = "km"
)

// Mean earth radius per unit
const (
	earthRadiusMiles = 3958.8
	earthRadiusKm    = 6371.0
)

// Coordinate is a latitude/longitude pair in decimal degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies within the valid
// latitude [-90, 90] and longitude [-180, 180] ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// ParseUnit maps a unit name to a Unit. Empty input defaults to miles.
func ParseUnit(s string) (Unit, bool) {
	switch s {
	case "", "mi", "miles":
		return Miles, true
	case "km", "kilometers":
		return Kilometers, true
	}
	return "", false
}

// Distance computes the great-circle distance between two coordinates
// using the haversine formula on a spherical earth model.
func Distance(latA, lonA, latB, lonB float64, unit Unit) float64 {
	radius := earthRadiusMiles
	if unit == Kilometers {
		radius = earthRadiusKm
	}

	phiA := toRadians(latA)
	phiB := toRadians(latB)
	dPhi := toRadians(latB - latA)
	dLambda := toRadians(lonB - lonA)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phiA)*math.Cos(phiB)*sinLambda*sinLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return radius * c
}

// DistanceBetween is Distance over two Coordinate values.
func DistanceBetween(a, b Coordinate, unit Unit) float64 {
	return Distance(a.Latitude, a.Longitude, b.Latitude, b.Longitude, unit)
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
