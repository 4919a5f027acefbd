package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ray1729/gpx-profile/pkg/config"
	"github.com/ray1729/gpx-profile/pkg/grid"
	"github.com/ray1729/gpx-profile/pkg/logging"
	"github.com/ray1729/gpx-profile/pkg/metrics"
	"github.com/ray1729/gpx-profile/pkg/rwgps"
)

func main() {
	log.SetFlags(0)
	app := &cli.App{
		Name:  "serve-profile",
		Usage: "Serve altitude profiles of RideWithGPS routes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Read configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:    "listen-addr",
				Usage:   "Address to listen on",
				EnvVars: []string{"LISTEN_ADDR"},
			},
			&cli.BoolFlag{
				Name:  "national-grid",
				Usage: "Add Ordnance Survey National Grid references for the start and finish",
			},
		},
		Action: serve,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("listen-addr") {
		cfg.Server.ListenAddr = c.String("listen-addr")
	}
	logger := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	opts := []rwgps.HandlerOption{rwgps.WithLogger(logger)}
	if c.Bool("national-grid") {
		conv, err := grid.NewConverter()
		if err != nil {
			return err
		}
		opts = append(opts, rwgps.WithGrid(conv))
	}

	mux := http.NewServeMux()
	mux.Handle("/profile", metrics.Middleware("/profile", rwgps.NewHandler(cfg, opts...)))
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errc := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
