// Package main is the contournav command itself.
package main

import (
	"log"
	"os"

	"go.viam.com/contournav/cli"
)

func main() {
	if err := cli.NewApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
