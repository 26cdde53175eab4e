package main

import (
	"context"
	"log"

	"github.com/sqlic/sqlic/internal/bench"
)

func main() {
	if err := bench.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
