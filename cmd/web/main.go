package main

import (
	"fmt"
	"os"

	"oriventa_backend/internal/app"
	"oriventa_backend/internal/config"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to YAML config (default config/config.yaml or $CONFIG_PATH)")
	envFile := pflag.String("env-file", config.DefaultEnvFile, "dotenv file loaded before the config")
	migrateOnly := pflag.Bool("migrate", false, "apply database migrations and exit")
	pflag.Parse()

	cfg, err := config.LoadConfig(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(cfg, *migrateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
