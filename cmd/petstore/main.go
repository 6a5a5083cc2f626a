package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fourpaws/petstore/internal/petstore/app"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	application, err := app.New(app.LoadConfig())
	if err != nil {
		return fmt.Errorf("petstore: initialize: %w", err)
	}
	return application.Run()
}
