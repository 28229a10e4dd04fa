package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/kovalevdev/chatmate/core/cmd"
	"github.com/kovalevdev/chatmate/internal/app"
)

func main() {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("chatmate: %v", err)
	}
}
