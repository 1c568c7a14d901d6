package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/timewinder-dev/regloop/vm"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt PROGRAM",
	Short: "Print a program in canonical form without running it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prog, err := vm.CompilePath(args[0])
		if err != nil {
			fatal(err, "Couldn't read program")
		}
		fmt.Println(prog.String())
	},
}
