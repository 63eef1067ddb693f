package main

import (
	"log"

	"github.com/patric-chuzhbe/todos/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Panicln("Unable to initialize the application:", err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		log.Panicln("The application finished with error:", err)
	}
}
