package main

import (
	"log"

	"github.com/signalis/connector/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
