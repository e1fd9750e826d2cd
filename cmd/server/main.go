package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/cubny/taxifare/internal/app"
	"github.com/cubny/taxifare/internal/cache"
	"github.com/cubny/taxifare/internal/server"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	conf, log, predictor, err := app.Bootstrap(*configPath)
	if err != nil {
		logrus.Fatalf("bootstrap: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []server.Option
	if conf.Cache.Enabled {
		estimates, err := cache.New(ctx, cache.Config{
			Addr:     conf.Cache.Addr,
			Password: conf.Cache.Password,
			DB:       conf.Cache.DB,
			TTL:      conf.Cache.TTL,
		})
		if err != nil {
			log.Fatalf("estimate cache: %s", err)
		}
		defer estimates.Close()
		opts = append(opts, server.WithCache(estimates))
		log.WithField("addr", conf.Cache.Addr).Info("estimate cache enabled")
	}

	srv, err := server.New(predictor, log, server.Config{
		Port:            conf.Server.Port,
		ShutdownTimeout: conf.Server.ShutdownTimeout,
	}, opts...)
	if err != nil {
		log.Fatalf("server: %s", err)
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server: %s", err)
	}
}
