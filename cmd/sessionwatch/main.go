package main

import (
	"os"

	"github.com/MrEthical07/goSession/cmd/sessionwatch/commands"
)

func main() {
	rootCMD := commands.NewRootCMD()
	if err := rootCMD.Execute(); err != nil {
		rootCMD.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
