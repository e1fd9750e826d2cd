package fare

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// distanceModel charges 2.5 per scaled kilometer plus a flag of 3
type distanceModel struct{}

func (distanceModel) Predict(features []float64) (float64, error) {
	return 3 + 2.5*features[idxTripDistance], nil
}

func newTestPredictor(t *testing.T) *Predictor {
	t.Helper()
	p, err := NewPredictor(distanceModel{}, stubScaler{mean: []float64{0, 0, 0}, scale: []float64{1, 1, 1}})
	require.NoError(t, err)
	return p
}

func TestEstimator_Run(t *testing.T) {
	data := `id,pickup_lat,pickup_lon,drop_lat,drop_lon,passengers,pickup_date,pickup_time,payment
1,40.7580,-73.9855,40.7128,-74.0060,2,2024-06-15,08:30,Cash
2,40.7580,-73.9855,40.7580,-73.9855,1,2024-06-15,23:10,Credit Card
3,40.7580,-73.9855,40.7128,-74.0060,9,2024-06-15,08:30,Cash
4,40.7580,-73.9855,40.7128
5,NaN,-73.9855,40.7128,-74.0060,1,2024-06-15,08:30,Dispute`

	in := strings.NewReader(data)
	out := &bytes.Buffer{}
	logger, hook := logtest.NewNullLogger()

	estimator, err := NewEstimator(in, out, newTestPredictor(t), &Config{Concurrency: 1}, logger)
	require.NoError(t, err)

	err = estimator.Run(context.TODO())
	assert.Nil(t, err)

	// 3 + 2.5 * 5.3145
	assert.Equal(t, "1,16.29\n2,3.00\n3,\n4,\n5,\n", out.String())
	assert.Len(t, hook.AllEntries(), 3)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "5", hook.LastEntry().Data["id"])
}

func TestEstimator_RunConcurrently(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("7,40.7580,-73.9855,40.7580,-73.9855,1,2024-06-15,10:00,Cash\n")
	}

	out := &bytes.Buffer{}
	logger, _ := logtest.NewNullLogger()
	estimator, err := NewEstimator(strings.NewReader(b.String()), out, newTestPredictor(t), &Config{Concurrency: 4}, logger)
	require.NoError(t, err)
	require.NoError(t, estimator.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	sort.Strings(lines)
	assert.Len(t, lines, 50)
	assert.Equal(t, "7,3.00", lines[0])
	assert.Equal(t, "7,3.00", lines[49])
}

func TestNewEstimator(t *testing.T) {
	_, err := NewEstimator(strings.NewReader(""), &bytes.Buffer{}, newTestPredictor(t), &Config{Concurrency: 0}, nil)
	assert.NotNil(t, err)

	_, err = NewEstimator(strings.NewReader(""), &bytes.Buffer{}, nil, &Config{Concurrency: 1}, nil)
	assert.NotNil(t, err)

	e, err := NewEstimator(strings.NewReader(""), &bytes.Buffer{}, newTestPredictor(t), &Config{Concurrency: 1}, nil)
	assert.Nil(t, err)
	assert.Nil(t, e.Run(context.Background()))
}
