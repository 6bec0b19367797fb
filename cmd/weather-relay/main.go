package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awskinesis "github.com/aws/aws-sdk-go-v2/service/kinesis"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	relay "github.com/alexgridx/data-relay"
	"github.com/alexgridx/data-relay/config"
	"github.com/alexgridx/data-relay/sink/kinesis"
	"github.com/alexgridx/data-relay/sink/s3"
	"github.com/alexgridx/data-relay/store"
)

var (
	envFile     string
	cities      string
	metricsAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "weather-relay",
		Short:         "Fetch current weather for a list of cities and store one JSON object per city",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVar(&envFile, "env-file", "", "Path to a .env file loaded before reading the environment")
	rootCmd.Flags().StringVar(&cities, "cities", "", "Comma separated cities, overrides WEATHER_CITIES")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address while running")

	if err := rootCmd.Execute(); err != nil {
		logger := relay.NewLogger(os.Stderr, "info", relay.FormatJSON)
		logger.Error().Err(err).Msg("weather relay failed")
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if cities != "" {
		os.Setenv("WEATHER_CITIES", cities)
	}

	cfg, err := config.LoadWeather(envFile)
	if err != nil {
		return err
	}

	logger := relay.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := config.LoadAWS(ctx, cfg.AWS)
	if err != nil {
		return err
	}

	sink, err := newSink(cfg, awsCfg)
	if err != nil {
		return err
	}

	ckStore, closeStore, err := store.Open(cfg.Checkpoint, awsCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	source := relay.NewOpenWeatherClient(cfg.APIKey,
		relay.WithBaseURL(cfg.BaseURL),
		relay.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)

	r, err := relay.NewWeatherRelay(source, sink, cfg.Cities,
		relay.WithLogger(logger),
		relay.WithStore(ckStore),
		relay.WithKeyPrefix(cfg.KeyPrefix),
		relay.WithMetricRegistry(registry),
	)
	if err != nil {
		return err
	}

	logger.Info().
		Str("sink", cfg.Sink).
		Str("checkpoint_store", cfg.Checkpoint.Store).
		Strs("cities", cfg.Cities).
		Msg("starting weather relay")

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info().Str("addr", metricsAddr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-done:
			case <-gctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer close(done)
		// per-city failures are reported in the summary, not the exit code
		if _, err := r.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	return g.Wait()
}

func newSink(cfg *config.Weather, awsCfg aws.Config) (relay.ObjectWriter, error) {
	switch strings.ToLower(cfg.Sink) {
	case "kinesis":
		return kinesis.New(cfg.StreamName, kinesis.WithClient(awskinesis.NewFromConfig(awsCfg)))
	default:
		client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
			o.UsePathStyle = cfg.AWS.EndpointURL != ""
		})
		return s3.New(cfg.Bucket, s3.WithClient(client))
	}
}
