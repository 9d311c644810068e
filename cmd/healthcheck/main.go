package main

import (
	"net/http"
	"os"
	"time"
)

// Minimal container healthcheck: probe the health endpoint and exit non-zero
// when the server is unreachable or erroring.
func main() {
	url := os.Getenv("ARENA_HEALTH_URL")
	if url == "" {
		url = "http://127.0.0.1:8080/api/healthz"
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		os.Exit(1)
	}
	os.Exit(0)
}
