package fare

import (
	"fmt"
	"time"
)

// Feature names in the order the model was fit on
const (
	FeatureTripDistance    = "trip_distance"
	FeaturePassengerCount  = "passenger_count"
	FeaturePickupHour      = "pickup_hour"
	FeaturePickupDay       = "pickup_day_10"
	FeatureRushHour        = "is_rush_hour"
	FeatureLateNight       = "is_late_night"
	FeatureWeekend         = "is_weekend"
	FeatureMorning         = "time_period_Morning"
	FeatureAfternoon       = "time_period_Afternoon"
	FeatureEvening         = "time_period_Evening"
	FeaturePM              = "am_pm_PM"
	FeaturePaymentCash     = "payment_type_2"
	FeaturePaymentNoCharge = "payment_type_3"
	FeaturePaymentDispute  = "payment_type_4"
)

// positions in FeatureVector
const (
	idxTripDistance = iota
	idxPassengerCount
	idxPickupHour
	idxPickupDay
	idxRushHour
	idxLateNight
	idxWeekend
	idxMorning
	idxAfternoon
	idxEvening
	idxPM
	idxPaymentCash
	idxPaymentNoCharge
	idxPaymentDispute
	featureCount
)

var featureNames = [featureCount]string{
	FeatureTripDistance,
	FeaturePassengerCount,
	FeaturePickupHour,
	FeaturePickupDay,
	FeatureRushHour,
	FeatureLateNight,
	FeatureWeekend,
	FeatureMorning,
	FeatureAfternoon,
	FeatureEvening,
	FeaturePM,
	FeaturePaymentCash,
	FeaturePaymentNoCharge,
	FeaturePaymentDispute,
}

// scaledIdx are the positions of the numeric features passed through the scaler, in scaler order
var scaledIdx = [...]int{idxTripDistance, idxPassengerCount, idxPickupHour}

// FeatureNames returns the names of the feature vector fields in order
func FeatureNames() []string {
	names := featureNames
	return names[:]
}

// ScaledFeatureNames returns the names of the fields the scaler is applied to, in scaler order
func ScaledFeatureNames() []string {
	names := make([]string, len(scaledIdx))
	for i, idx := range scaledIdx {
		names[i] = featureNames[idx]
	}
	return names
}

// FeatureVector is the model input. The position of each value is fixed by FeatureNames.
type FeatureVector [featureCount]float64

// Get returns the value of the named feature
func (v FeatureVector) Get(name string) (float64, bool) {
	for i, n := range featureNames {
		if n == name {
			return v[i], true
		}
	}
	return 0, false
}

// Map returns the features keyed by name
func (v FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, featureCount)
	for i, n := range featureNames {
		m[n] = v[i]
	}
	return m
}

// Slice returns a copy of the vector as a slice
func (v FeatureVector) Slice() []float64 {
	s := make([]float64, featureCount)
	copy(s, v[:])
	return s
}

// BuildFeatures turns a trip into the unscaled feature vector
func BuildFeatures(trip Trip) (FeatureVector, error) {
	var v FeatureVector
	if err := trip.Validate(); err != nil {
		return v, fmt.Errorf("invalid trip: %w", err)
	}

	hour := trip.PickupAt.Hour()
	day := Weekday(trip.PickupAt)

	v[idxTripDistance] = trip.Dropoff.Distance(trip.Pickup)
	v[idxPassengerCount] = float64(trip.Passengers)
	v[idxPickupHour] = float64(hour)
	v[idxPickupDay] = float64(day)
	v[idxRushHour] = flag(isRushHour(hour))
	v[idxLateNight] = flag(hour >= 22 || hour <= 5)
	v[idxWeekend] = flag(day >= 5)
	// hours 0 to 4 belong to no time period
	v[idxMorning] = flag(hour >= 5 && hour < 12)
	v[idxAfternoon] = flag(hour >= 12 && hour < 17)
	v[idxEvening] = flag(hour >= 17 && hour < 22)
	v[idxPM] = flag(hour >= 12)
	// credit card is the baseline with no flag set
	v[idxPaymentCash] = flag(trip.Payment == Cash)
	v[idxPaymentNoCharge] = flag(trip.Payment == NoCharge)
	v[idxPaymentDispute] = flag(trip.Payment == Dispute)

	return v, nil
}

// Weekday returns the day index of t where Monday is 0 and Sunday is 6
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func isRushHour(hour int) bool {
	switch hour {
	case 7, 8, 9, 16, 17, 18:
		return true
	}
	return false
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
