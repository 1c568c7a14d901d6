package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of regloop",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("regloop version %s\n", version)
	},
}
