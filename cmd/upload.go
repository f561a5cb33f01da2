package cmd

import (
	"strings"

	"github.com/mahirjain10/resize-uploader/internal/aws"
	"github.com/mahirjain10/resize-uploader/internal/pipeline"
	"github.com/mahirjain10/resize-uploader/internal/source"
	"github.com/mahirjain10/resize-uploader/internal/types"
	"github.com/mahirjain10/resize-uploader/internal/view"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	FlagFile   = "file"
	FlagWidth  = "width"
	FlagHeight = "height"
)

func UploadCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "uploads one image and prints the resized image url",
		Long: `Upload sends one image to the resize service and prints the returned url.
Width and height are forwarded exactly as given. Without --file the request
carries no image.`,
		Example: `  resize-uploader upload --file ./cat.png --width 300 --height 200
  resize-uploader upload --file s3://my-bucket/cat.png --width 300`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := cmd.Flags().GetString(FlagFile)
			if err != nil {
				return err
			}
			width, err := cmd.Flags().GetString(FlagWidth)
			if err != nil {
				return err
			}
			height, err := cmd.Flags().GetString(FlagHeight)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := NewApp(ctx, v, view.NewConsole(cmd.OutOrStdout()), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			var s3Service *aws.S3Service
			if strings.HasPrefix(ref, aws.S3Scheme) {
				if s3Service, err = app.S3Service(ctx); err != nil {
					return err
				}
			}
			file, err := source.FromReference(ref, s3Service)
			if err != nil {
				return err
			}

			_, err = app.pipeline.Submit(ctx, pipeline.Submission{
				File:   file,
				Params: types.UploadRequestParams{Width: width, Height: height},
			})
			return err
		},
	}

	cmd.Flags().String(FlagFile, "", "local path or s3://bucket/key of the image")
	cmd.Flags().String(FlagWidth, "", "target width, sent as typed")
	cmd.Flags().String(FlagHeight, "", "target height, sent as typed")
	return cmd
}
