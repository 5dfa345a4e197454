package main

import (
	"log"

	"github.com/alexcrichton/futures-await/cmd"
)

func main() {
	log.Default().SetFlags(0)
	cmd.Execute()
}
