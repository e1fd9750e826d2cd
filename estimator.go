package fare

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/cubny/taxifare/internal/pipeline"
)

// csvFields is the number of fields of an input record:
// id,pickup_lat,pickup_lon,drop_lat,drop_lon,passengers,pickup_date,pickup_time,payment
const csvFields = 9

// tripFare is the result of estimating one input record
type tripFare struct {
	id   string
	fare Price
	err  error
}

// estimator takes a reader stream of trips in CSV and streams out the fare estimate
// of each trip into the writer stream
type estimator struct {
	reader    io.Reader
	writer    io.Writer
	conf      *Config
	predictor *Predictor
	log       logrus.FieldLogger
}

// NewEstimator creates an estimator struct
func NewEstimator(in io.Reader, out io.Writer, predictor *Predictor, config *Config, log logrus.FieldLogger) (*estimator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if predictor == nil {
		return nil, errors.New("predictor is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &estimator{
		reader:    in,
		writer:    out,
		conf:      config,
		predictor: predictor,
		log:       log,
	}, nil
}

// Run runs the estimator pipeline. A trip that cannot be estimated is written with an empty fare.
func (e *estimator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := csv.NewReader(e.reader)
	in.FieldsPerRecord = -1
	in.TrimLeadingSpace = true

	linec, errc1 := pipeline.Generate(ctx, e.streamFromCSV(in))
	outc, errc2 := pipeline.WorkerPool(ctx, e.conf.Concurrency, linec, e.estimateTrip)
	if err := e.sinkCSV(ctx, outc); err != nil {
		return err
	}

	errm := pipeline.MergeErrors(ctx, errc1, errc2)
	for err := range errm {
		switch {
		case errors.Is(err, io.EOF):
		case err != nil:
			return err
		}
	}

	return nil
}

// streamFromCSV returns a generator that reads one line at a time from a csv.Reader
func (e *estimator) streamFromCSV(in *csv.Reader) func() (Line, error) {
	return func() (Line, error) {
		record, err := in.Read()
		if err != nil {
			return nil, err
		}
		// header line
		if len(record) > 0 && record[0] == "id" {
			return nil, pipeline.ErrSkip
		}
		return Line(record), nil
	}
}

// estimateTrip is a pipeline worker that estimates the fare of a single line
func (e *estimator) estimateTrip(ctx context.Context, line Line, outc chan<- tripFare) error {
	result := tripFare{}
	if len(line) > 0 {
		result.id = line[0]
	}

	trip, err := parseLine(line)
	if err == nil {
		result.fare, err = e.predictor.Predict(trip)
	}
	result.err = err

	select {
	case <-ctx.Done():
		return ctx.Err()
	case outc <- result:
	}
	return nil
}

func parseLine(line Line) (Trip, error) {
	if len(line) != csvFields {
		return Trip{}, fmt.Errorf("expected %d fields, got %d", csvFields, len(line))
	}
	return NewTrip(line[1], line[2], line[3], line[4], line[5], line[6], line[7], line[8])
}

// sinkCSVRecord writes a tripFare record to csv.Writer
func (e *estimator) sinkCSVRecord(w *csv.Writer) func(tripFare) error {
	return func(res tripFare) error {
		fareEstimate := ""
		if res.err != nil {
			e.log.WithError(res.err).WithField("id", res.id).Warn("could not compute fare")
		} else {
			fareEstimate = strconv.FormatFloat(float64(res.fare), 'f', 2, 64)
		}
		return w.Write(Line{res.id, fareEstimate})
	}
}

// sinkCSV writes all tripFare records to estimator writer in CSV format
func (e *estimator) sinkCSV(ctx context.Context, outc <-chan tripFare) error {
	output := csv.NewWriter(e.writer)
	err := pipeline.Sink(ctx, outc, e.sinkCSVRecord(output))
	if err != nil {
		return err
	}

	output.Flush()
	if err := output.Error(); err != nil {
		return err
	}

	return nil
}
