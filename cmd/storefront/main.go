// Package main is the storefront command: a catalog/cart session server and a demo data source.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		stop()
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}
