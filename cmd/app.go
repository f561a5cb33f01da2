package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/mahirjain10/resize-uploader/config"
	"github.com/mahirjain10/resize-uploader/internal/aws"
	"github.com/mahirjain10/resize-uploader/internal/logging"
	"github.com/mahirjain10/resize-uploader/internal/pipeline"
	"github.com/mahirjain10/resize-uploader/internal/queue"
	"github.com/mahirjain10/resize-uploader/internal/types"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type statusPublisher interface {
	Publish(ctx context.Context, message *types.StatusMessage) error
	Close() error
}

type App struct {
	config    *config.Config
	logger    zerolog.Logger
	publisher statusPublisher
	pipeline  *pipeline.Pipeline
	s3Service *aws.S3Service
}

// NewApp creates and initializes a new App instance with all dependencies.
// Results are rendered into resultView.
func NewApp(ctx context.Context, v *viper.Viper, resultView pipeline.ResultView, logOut io.Writer) (*App, error) {
	envConfig, err := config.InitializeEnvs(v)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize environment config: %w", err)
	}
	logger := logging.New(envConfig.LogLevel, logOut)

	var publisher statusPublisher
	if envConfig.RabbitMqURL != "" {
		publisher, err = queue.DialStatusPublisher(envConfig.RabbitMqURL, envConfig.StatusExchange)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		logger.Info().Str("exchange", envConfig.StatusExchange).Msg("publishing status to RabbitMQ")
	} else {
		publisher = queue.NewLogPublisher(logger)
	}

	uploadPipeline := pipeline.New(envConfig.ApiURL, resultView,
		pipeline.WithHTTPClient(&http.Client{Timeout: envConfig.RequestTimeout}),
		pipeline.WithPublisher(publisher),
		pipeline.WithLogger(logger),
		pipeline.WithLinkToResult(envConfig.LinkToResult),
	)

	return &App{
		config:    envConfig,
		logger:    logger,
		publisher: publisher,
		pipeline:  uploadPipeline,
	}, nil
}

// S3Service builds the S3 client on first use, so commands that never touch
// S3 never need AWS credentials.
func (app *App) S3Service(ctx context.Context) (*aws.S3Service, error) {
	if app.s3Service != nil {
		return app.s3Service, nil
	}
	awsConfig, err := config.InitializeAws(ctx, app.config.AwsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AWS config: %w", err)
	}
	app.s3Service = aws.NewS3Service(aws.NewS3Client(awsConfig))
	return app.s3Service, nil
}

// Close gracefully shuts down the application
func (app *App) Close() error {
	if app.publisher == nil {
		return nil
	}
	if err := app.publisher.Close(); err != nil {
		app.logger.Warn().Err(err).Msg("error closing status publisher")
		return err
	}
	return nil
}
