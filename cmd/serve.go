package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/mahirjain10/resize-uploader/config"
	"github.com/mahirjain10/resize-uploader/internal/server"
	"github.com/mahirjain10/resize-uploader/internal/view"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const FlagPort = "port"

func ServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serves the upload page",
		Example: `  resize-uploader serve --port 8080
  resize-uploader serve --api-url http://localhost:3000/dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			container := view.NewContainer()
			app, err := NewApp(cmd.Context(), v, container, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			if app.config.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := server.NewServer(app.pipeline, container, app.logger)
			return srv.Run(":" + app.config.ServerPort)
		},
	}

	cmd.Flags().String(FlagPort, config.DefaultServerPort, "port to serve the upload page on")
	if err := v.BindPFlag(config.KeyServerPort, cmd.Flags().Lookup(FlagPort)); err != nil {
		panic(err)
	}
	return cmd
}
