// Command healthcheck probes the server's liveness endpoint. It is the
// container HEALTHCHECK binary, so it exits 0 on success and 1 otherwise.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pergunte-russel/russel-bot-go/internal/config"
)

func main() {
	port := os.Getenv(config.EnvPort)
	if port == "" {
		port = "10000"
	}

	client := &http.Client{Timeout: 8 * time.Second}
	url := fmt.Sprintf("http://localhost:%s/healthz", port)

	resp, err := client.Get(url)
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}

	os.Exit(0)
}
