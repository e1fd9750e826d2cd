/*
Package fare estimates taxi fares with a pre-trained regression model. It turns raw trip
parameters (pickup and dropoff coordinates, pickup time, passenger count and payment type)
into the fixed-order feature vector the model was fit on, scales the numeric part of it
and runs inference. Trips can be estimated one at a time through a Predictor or in bulk
from CSV through the estimator pipeline.
*/
package fare

import (
	"errors"
	"fmt"
)

// Price is a type for price value
type Price float64

// String renders the price the way it is shown to riders
func (p Price) String() string {
	return fmt.Sprintf("Estimated Total Fare: $%.2f", float64(p))
}

// Line is a slice of strings
type Line []string

type Config struct {
	Concurrency int
}

func (c Config) Validate() error {
	switch {
	case c.Concurrency <= 0:
		return errors.New("concurrency should be greater than 0")
	}

	return nil
}
