package domain

// MetersPerMile is the length of the international mile in meters.
const MetersPerMile = 1609.344

// MetersToKilometers converts a distance in meters to kilometers.
func MetersToKilometers(meters float64) float64 { return meters / 1000 }

// MetersToMiles converts a distance in meters to miles.
func MetersToMiles(meters float64) float64 { return meters / MetersPerMile }

// DistanceIn converts meters into the given unit system: kilometers for
// metric, miles for imperial.
func DistanceIn(units UnitSystem, meters float64) float64 {
	if units == UnitsImperial {
		return MetersToMiles(meters)
	}
	return MetersToKilometers(meters)
}
