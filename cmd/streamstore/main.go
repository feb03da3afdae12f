// filepath: cmd/streamstore/main.go
package main

import (
	"streamstore/internal/cli"

	// Import docs for Swagger
	_ "streamstore/docs"
)

// @title streamstore API
// @version 1.0.0
// @description Streams uploads to disk through a bounded buffer and serves the latest one.
// @BasePath /
// @schemes http

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
