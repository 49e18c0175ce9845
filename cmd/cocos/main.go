package main

import (
	"os"

	"github.com/nacho-herrera/go-cocos/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
