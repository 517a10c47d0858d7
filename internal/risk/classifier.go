// Package risk derives coarse zone risk labels from the latest sensor
// reading. The thresholds stand in for a trained model; they are static and
// take no input other than the reading itself.
package risk

// Level is one of the labels exposed on the map.
type Level string

const (
	Indeterminate Level = "INDETERMINATE"

	// Air quality labels.
	Good     Level = "GOOD"
	Moderate Level = "MODERATE"
	Bad      Level = "BAD"

	// Epidemiological risk labels.
	Low    Level = "LOW"
	Medium Level = "MEDIUM"
	High   Level = "HIGH"
)

// Reading carries the measurements the classifier looks at.
type Reading struct {
	Temperature float64
	Humidity    float64
	PM25        float64
}

// Assessment is the classifier output for one zone.
type Assessment struct {
	AirQuality      Level
	Epidemiological Level
}

// Assess maps a sensor's most recent reading to its risk labels. A nil
// reading (sensor has never reported) is INDETERMINATE on both axes.
//
// The epidemiological branches are evaluated first-match-wins and are only
// mutually exclusive by their order, not by their predicates; do not merge
// or reorder them.
func Assess(r *Reading) Assessment {
	if r == nil {
		return Assessment{
			AirQuality:      Indeterminate,
			Epidemiological: Indeterminate,
		}
	}

	air := Good
	if r.PM25 > 35 {
		air = Bad
	} else if r.PM25 > 12 {
		air = Moderate
	}

	epi := Low
	switch {
	case r.Temperature > 25 && r.Humidity > 70:
		// Heat plus humidity: vector-borne (e.g. dengue) proxy.
		epi = High
	case r.Temperature < 10 && air == Bad:
		// Cold plus polluted air: respiratory proxy.
		epi = High
	case r.Temperature > 20 && air == Moderate:
		epi = Medium
	}

	return Assessment{
		AirQuality:      air,
		Epidemiological: epi,
	}
}
