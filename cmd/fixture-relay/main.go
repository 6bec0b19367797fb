package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"

	relay "github.com/alexgridx/data-relay"
	"github.com/alexgridx/data-relay/config"
	"github.com/alexgridx/data-relay/sink/sns"
	"github.com/alexgridx/data-relay/store"
)

func main() {
	boot := relay.NewLogger(os.Stderr, "info", relay.FormatJSON)

	cfg, err := config.LoadFixture(os.Getenv("ENV_FILE"))
	if err != nil {
		boot.Fatal().Err(err).Msg("load config")
	}

	logger := relay.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	awsCfg, err := config.LoadAWS(context.Background(), cfg.AWS)
	if err != nil {
		logger.Fatal().Err(err).Msg("load aws config")
	}

	publisher, err := sns.New(cfg.TopicARN, sns.WithClient(awssns.NewFromConfig(awsCfg)))
	if err != nil {
		logger.Fatal().Err(err).Msg("sns publisher")
	}

	// connections are reused across warm invocations
	ckStore, _, err := store.Open(cfg.Checkpoint, awsCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("checkpoint store")
	}

	source := relay.NewSportsDataClient(cfg.APIKey, cfg.Area,
		relay.WithBaseURL(cfg.BaseURL),
		relay.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)

	r, err := relay.NewFixtureRelay(source, publisher,
		relay.WithLogger(logger),
		relay.WithStore(ckStore),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("fixture relay")
	}

	lambda.Start(r.Handle)
}
