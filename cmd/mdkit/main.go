package main

import (
	"log"

	"github.com/solen/mdkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
