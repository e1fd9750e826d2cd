package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	fare "github.com/cubny/taxifare"
	"github.com/cubny/taxifare/internal/cache"
)

const couldNotCompute = "could not compute fare"

// Defaults shown by the form, a trip from Times Square to Wall Street
const (
	defaultPickupLat = 40.7580
	defaultPickupLon = -73.9855
	defaultDropLat   = 40.7128
	defaultDropLon   = -74.0060
)

type estimateRequest struct {
	PickupLat      float64 `json:"pickup_lat" form:"pickup_lat"`
	PickupLon      float64 `json:"pickup_lon" form:"pickup_lon"`
	DropLat        float64 `json:"drop_lat" form:"drop_lat"`
	DropLon        float64 `json:"drop_lon" form:"drop_lon"`
	PassengerCount int     `json:"passenger_count" form:"passenger_count"`
	PickupDate     string  `json:"pickup_date" form:"pickup_date"`
	PickupTime     string  `json:"pickup_time" form:"pickup_time"`
	PaymentType    string  `json:"payment_type" form:"payment_type"`
}

func (r estimateRequest) trip() (fare.Trip, error) {
	pickupAt, err := fare.ParsePickupTime(r.PickupDate, r.PickupTime)
	if err != nil {
		return fare.Trip{}, err
	}
	payment, err := fare.ParsePaymentType(r.PaymentType)
	if err != nil {
		return fare.Trip{}, err
	}

	return fare.Trip{
		Pickup:     fare.Point{Lat: r.PickupLat, Lon: r.PickupLon},
		Dropoff:    fare.Point{Lat: r.DropLat, Lon: r.DropLon},
		Passengers: r.PassengerCount,
		PickupAt:   pickupAt,
		Payment:    payment,
	}, nil
}

type estimateResponse struct {
	Fare        float64 `json:"fare"`
	Message     string  `json:"message"`
	PickupCell  string  `json:"pickup_cell"`
	DropoffCell string  `json:"dropoff_cell"`
	Cached      bool    `json:"cached"`
}

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// estimate handles POST /api/v1/estimate
func (s *Server) estimate(c echo.Context) error {
	var req estimateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
	}

	trip, err := req.trip()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request: %s", err)})
	}

	log := s.requestLogger(c)
	price, cached, err := s.predict(c.Request().Context(), trip, log)
	if err != nil {
		resp := errorResponse{Error: couldNotCompute}
		var perr *fare.PredictionError
		if errors.As(err, &perr) {
			resp.Stage = string(perr.Stage)
		}
		log.WithError(err).Warn(couldNotCompute)
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}

	return c.JSON(http.StatusOK, estimateResponse{
		Fare:        float64(price),
		Message:     price.String(),
		PickupCell:  cache.Cell(trip.Pickup),
		DropoffCell: cache.Cell(trip.Dropoff),
		Cached:      cached,
	})
}

// showForm handles GET /
func (s *Server) showForm(c echo.Context) error {
	now := s.now()
	return c.Render(http.StatusOK, formTemplate, newFormPage(estimateRequest{
		PickupLat:      defaultPickupLat,
		PickupLon:      defaultPickupLon,
		DropLat:        defaultDropLat,
		DropLon:        defaultDropLon,
		PassengerCount: 1,
		PickupDate:     now.Format(fare.DateLayout),
		PickupTime:     now.Format(fare.TimeLayout),
		PaymentType:    fare.CreditCard.String(),
	}))
}

// submitForm handles POST /
func (s *Server) submitForm(c echo.Context) error {
	var req estimateRequest
	if err := c.Bind(&req); err != nil {
		page := newFormPage(req)
		page.Error = "Could not read the form, check the numbers you entered"
		return c.Render(http.StatusBadRequest, formTemplate, page)
	}

	page := newFormPage(req)
	trip, err := req.trip()
	if err != nil {
		page.Error = "Could not compute fare: " + err.Error()
		return c.Render(http.StatusBadRequest, formTemplate, page)
	}

	log := s.requestLogger(c)
	price, _, err := s.predict(c.Request().Context(), trip, log)
	if err != nil {
		log.WithError(err).Warn(couldNotCompute)
		page.Error = "Could not compute fare"
		return c.Render(http.StatusUnprocessableEntity, formTemplate, page)
	}

	page.Result = price.String()
	return c.Render(http.StatusOK, formTemplate, page)
}

type healthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}

// health handles GET /healthz. The predictor is loaded at startup, so the service is
// healthy whenever it answers; the cache is reported but never fails the check.
func (s *Server) health(c echo.Context) error {
	resp := healthResponse{Status: "ok", Cache: "disabled"}
	if s.cache != nil {
		resp.Cache = "ok"
		if err := s.cache.Ping(c.Request().Context()); err != nil {
			s.requestLogger(c).WithError(err).Warn("estimate cache unavailable")
			resp.Cache = "unavailable"
		}
	}
	return c.JSON(http.StatusOK, resp)
}
