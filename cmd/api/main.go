package main

import (
	"context"
	"log"

	"github.com/tablebite/order-service/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("order api exited with error: %v", err)
	}
}
