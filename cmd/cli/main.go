package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	fare "github.com/cubny/taxifare"
	"github.com/cubny/taxifare/internal/app"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	infile := flag.String("input", "", "input csv file path, estimates a single trip from the flags below when empty")
	outfile := flag.String("output", "fares.csv", "output csv file path")
	concurrency := flag.Int("c", 0, "concurrent workers, overrides batch.concurrency")

	now := time.Now()
	pickupLat := flag.Float64("pickup-lat", 40.7580, "pickup latitude")
	pickupLon := flag.Float64("pickup-lon", -73.9855, "pickup longitude")
	dropLat := flag.Float64("drop-lat", 40.7128, "dropoff latitude")
	dropLon := flag.Float64("drop-lon", -74.0060, "dropoff longitude")
	passengers := flag.Int("passengers", 1, "passenger count, 1 to 6")
	date := flag.String("date", now.Format(fare.DateLayout), "pickup date")
	clock := flag.String("time", now.Format(fare.TimeLayout), "pickup time")
	payment := flag.String("payment", fare.CreditCard.String(), "payment type: Credit Card, Cash, No Charge or Dispute")
	flag.Parse()

	conf, log, predictor, err := app.Bootstrap(*configPath)
	if err != nil {
		logrus.Fatalf("bootstrap: %s", err)
	}

	if *infile == "" {
		trip, err := fare.NewTrip(
			strconv.FormatFloat(*pickupLat, 'f', -1, 64),
			strconv.FormatFloat(*pickupLon, 'f', -1, 64),
			strconv.FormatFloat(*dropLat, 'f', -1, 64),
			strconv.FormatFloat(*dropLon, 'f', -1, 64),
			strconv.Itoa(*passengers), *date, *clock, *payment,
		)
		if err != nil {
			log.Fatalf("invalid trip: %s", err)
		}
		price, err := predictor.Predict(trip)
		if err != nil {
			entry := log.WithError(err)
			var perr *fare.PredictionError
			if errors.As(err, &perr) {
				entry = entry.WithField("stage", perr.Stage)
			}
			entry.Error("could not compute fare")
			os.Exit(1)
		}
		fmt.Println(price)
		return
	}

	workers := conf.Batch.Concurrency
	if *concurrency > 0 {
		workers = *concurrency
	}

	in, err := os.Open(*infile)
	if err != nil {
		log.Fatalf("open input file: %s", err)
	}

	out, err := os.Create(*outfile)
	if err != nil {
		log.Fatalf("open output file: %s", err)
	}

	defer func() {
		if err := in.Close(); err != nil {
			log.Fatalf("close input file: %s", err)
		}
		if err := out.Close(); err != nil {
			log.Fatalf("close output file: %s", err)
		}
	}()

	estimator, err := fare.NewEstimator(in, out, predictor, &fare.Config{Concurrency: workers}, log)
	if err != nil {
		log.Fatalf("NewEstimator: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := estimator.Run(ctx); err != nil {
		log.Fatalf("estimator: %s", err)
	}

	fmt.Printf("output is written to %s\n", *outfile)
	fmt.Println("exit.")
}
