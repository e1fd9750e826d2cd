// Package app wires the configuration, logger and artifacts the binaries share.
package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	fare "github.com/cubny/taxifare"
	"github.com/cubny/taxifare/internal/artifact"
	"github.com/cubny/taxifare/internal/config"
	"github.com/cubny/taxifare/internal/logger"
)

// Bootstrap loads the config, creates the logger and loads the predictor
func Bootstrap(configPath string) (*config.Config, *logrus.Logger, *fare.Predictor, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.New(logger.Config{Level: conf.Log.Level, Format: conf.Log.Format})

	predictor, err := LoadPredictor(conf.Model)
	if err != nil {
		return nil, nil, nil, err
	}
	log.WithFields(logrus.Fields{
		"model":  conf.Model.Path,
		"scaler": conf.Model.ScalerPath,
	}).Info("artifacts loaded")

	return conf, log, predictor, nil
}

// LoadPredictor loads the model and scaler artifacts and checks they match the feature schema
func LoadPredictor(conf config.ModelConfig) (*fare.Predictor, error) {
	model, err := artifact.LoadModel(conf.Path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	scaler, err := artifact.LoadScaler(conf.ScalerPath)
	if err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}

	predictor, err := fare.NewPredictor(model, scaler)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", artifact.ErrLoad, err)
	}
	return predictor, nil
}
