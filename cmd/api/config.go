package main

import "github.com/fastprodman/economyledger/internal/config"

type apiConfig struct {
	config.HTTPConfig
	Postgres config.PostgresConfig
	Economy  config.EconomyConfig
}
