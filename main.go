package main

import (
	"github.com/mahirjain10/resize-uploader/cmd"
	"github.com/spf13/viper"
)

func main() {
	cmd.Execute(cmd.RootCmd(viper.New()))
}
