package cmd

import (
	"fmt"
	"os"

	"github.com/mahirjain10/resize-uploader/config"
	"github.com/mahirjain10/resize-uploader/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	FlagLogLevel       = "log-level"
	FlagApiURL         = "api-url"
	FlagRequestTimeout = "request-timeout"
	FlagLinkToResult   = "link-to-result"
	FlagRabbitMqURL    = "rabbitmq-url"
	FlagStatusExchange = "status-exchange"
	FlagAwsRegion      = "aws-region"
)

var (
	version = "dev"
	commit  = "none"
)

func init() {
	log.Logger = logging.New(config.DefaultLogLevel, os.Stderr)
}

func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "prints the version of resize-uploader",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\nCommit: %s\n", version, commit)
			return nil
		},
	}
}

// RootCmd creates the resize-uploader CLI. Every persistent flag is bound to v
// under its config key, so flags override .env files and the environment.
func RootCmd(v *viper.Viper) *cobra.Command {
	r := &cobra.Command{
		Use:           "resize-uploader",
		Short:         "resize-uploader sends images to the resize service and shows where the result lives.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := r.PersistentFlags()
	flags.String(FlagLogLevel, config.DefaultLogLevel, "log level. debug|info|warn|error")
	flags.String(FlagApiURL, config.DefaultApiURL, "base url of the resize service")
	flags.Duration(FlagRequestTimeout, 0, "upload request timeout, 0 waits forever")
	flags.Bool(FlagLinkToResult, false, "point the rendered link at the resized image")
	flags.String(FlagRabbitMqURL, "", "publish submission status to this RabbitMQ server")
	flags.String(FlagStatusExchange, config.DefaultStatusExchange, "exchange for status messages")
	flags.String(FlagAwsRegion, "", "AWS region for s3:// files")

	bindings := map[string]string{
		config.KeyLogLevel:       FlagLogLevel,
		config.KeyApiURL:         FlagApiURL,
		config.KeyRequestTimeout: FlagRequestTimeout,
		config.KeyLinkToResult:   FlagLinkToResult,
		config.KeyRabbitMqURL:    FlagRabbitMqURL,
		config.KeyStatusExchange: FlagStatusExchange,
		config.KeyAwsRegion:      FlagAwsRegion,
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	r.AddCommand(ServeCmd(v), UploadCmd(v), VersionCmd())
	return r
}

func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
