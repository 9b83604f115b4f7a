package main

import (
	"log"

	"github.com/shashiranjanraj/vastra/internal/server"

	// Register migrations, seeders and queue jobs.
	_ "github.com/shashiranjanraj/vastra/app/jobs"
	_ "github.com/shashiranjanraj/vastra/database/migrations"
	_ "github.com/shashiranjanraj/vastra/database/seeders"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
