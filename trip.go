package fare

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minPassengers = 1
	maxPassengers = 6

	// DateLayout and TimeLayout are the accepted layouts of the raw pickup date and time
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrUnknownPaymentType = errors.New("unknown payment type")
	ErrPassengerCount     = fmt.Errorf("passenger count should be between %d and %d", minPassengers, maxPassengers)
	ErrCoordinate         = errors.New("coordinate is not a finite number")
	ErrPickupTime         = errors.New("pickup time is missing")
)

// PaymentType is the way the rider pays. Its numeric value is the category code
// the model was trained on.
type PaymentType int

const (
	CreditCard PaymentType = iota + 1
	Cash
	NoCharge
	Dispute
)

var paymentLabels = map[PaymentType]string{
	CreditCard: "Credit Card",
	Cash:       "Cash",
	NoCharge:   "No Charge",
	Dispute:    "Dispute",
}

// PaymentTypes lists the payment types in their category order
func PaymentTypes() []PaymentType {
	return []PaymentType{CreditCard, Cash, NoCharge, Dispute}
}

func (p PaymentType) String() string {
	if label, ok := paymentLabels[p]; ok {
		return label
	}
	return fmt.Sprintf("PaymentType(%d)", int(p))
}

// Valid reports whether p is one of the known payment types
func (p PaymentType) Valid() bool {
	_, ok := paymentLabels[p]
	return ok
}

// ParsePaymentType accepts either a label such as "Credit Card", "no_charge" or "Cash"
// or the category code "1".."4"
func ParsePaymentType(raw string) (PaymentType, error) {
	if code := strings.TrimSpace(raw); len(code) == 1 && code[0] >= '1' && code[0] <= '4' {
		return PaymentType(code[0] - '0'), nil
	}

	normalized := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(raw)))

	for p, label := range paymentLabels {
		if strings.ToLower(strings.ReplaceAll(label, " ", "")) == normalized {
			return p, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownPaymentType, raw)
}

// Trip holds the raw parameters of a trip to be estimated
type Trip struct {
	Pickup, Dropoff Point
	Passengers      int
	// PickupAt is read as wall clock time, its location is not converted
	PickupAt time.Time
	Payment  PaymentType
}

// NewTrip creates a Trip out of raw strings
func NewTrip(rawPickupLat, rawPickupLon, rawDropLat, rawDropLon, rawPassengers, rawDate, rawTime, rawPayment string) (Trip, error) {
	coords := make([]float64, 4)
	for i, raw := range []string{rawPickupLat, rawPickupLon, rawDropLat, rawDropLon} {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Trip{}, fmt.Errorf("parse coordinate %q: %w", raw, err)
		}
		coords[i] = v
	}

	passengers, err := strconv.Atoi(strings.TrimSpace(rawPassengers))
	if err != nil {
		return Trip{}, fmt.Errorf("parse passenger count %q: %w", rawPassengers, err)
	}

	pickupAt, err := ParsePickupTime(rawDate, rawTime)
	if err != nil {
		return Trip{}, err
	}

	payment, err := ParsePaymentType(rawPayment)
	if err != nil {
		return Trip{}, err
	}

	return Trip{
		Pickup:     Point{Lat: coords[0], Lon: coords[1]},
		Dropoff:    Point{Lat: coords[2], Lon: coords[3]},
		Passengers: passengers,
		PickupAt:   pickupAt,
		Payment:    payment,
	}, nil
}

// ParsePickupTime combines a date (2006-01-02) and a time of day (15:04 or 15:04:05)
func ParsePickupTime(rawDate, rawTime string) (time.Time, error) {
	rawDate, rawTime = strings.TrimSpace(rawDate), strings.TrimSpace(rawTime)
	layout := DateLayout + " " + TimeLayout
	if strings.Count(rawTime, ":") == 2 {
		layout += ":05"
	}

	t, err := time.Parse(layout, rawDate+" "+rawTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse pickup time %q %q: %w", rawDate, rawTime, err)
	}
	// the zero time marks an unset pickup, so 0001-01-01 00:00 cannot be represented
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrPickupTime, rawDate, rawTime)
	}
	return t, nil
}

// Validate checks the trip can be turned into features
func (t Trip) Validate() error {
	switch {
	case !t.Pickup.finite() || !t.Dropoff.finite():
		return ErrCoordinate
	case t.Passengers < minPassengers || t.Passengers > maxPassengers:
		return ErrPassengerCount
	// 0001-01-01 00:00 UTC is indistinguishable from an unset time and is rejected too
	case t.PickupAt.IsZero():
		return ErrPickupTime
	case !t.Payment.Valid():
		return fmt.Errorf("%w: %d", ErrUnknownPaymentType, int(t.Payment))
	}

	return nil
}
