// Package main provides a standalone health probe for the planner API.
// It is meant for container health checks and monitoring scripts.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mealmatch/planner/pkg/healthcheck"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// Options holds command-line configuration
type Options struct {
	URL            string
	Timeout        time.Duration
	Verbose        bool
	OutputFormat   string
	ExpectedStatus string
	RetryCount     int
	RetryDelay     time.Duration
}

func main() {
	os.Exit(run(parseFlags(), os.Stdout))
}

func parseFlags() Options {
	opts := Options{}

	flag.StringVar(&opts.URL, "url", "", "Health endpoint URL (default $HEALTH_CHECK_URL or http://localhost:8080/health)")
	flag.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Request timeout")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Verbose output")
	flag.StringVar(&opts.OutputFormat, "format", "text", "Output format: text, json")
	flag.StringVar(&opts.ExpectedStatus, "expect", "healthy", "Lowest acceptable status: healthy or degraded")
	flag.IntVar(&opts.RetryCount, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&opts.RetryDelay, "retry-delay", time.Second, "Delay between retries")
	flag.Parse()

	if opts.URL == "" {
		opts.URL = os.Getenv("HEALTH_CHECK_URL")
	}
	if opts.URL == "" {
		opts.URL = "http://localhost:8080/health"
	}
	return opts
}

// report mirrors the JSON served by /health
type report struct {
	Status  healthcheck.Status `json:"status"`
	Version string             `json:"version"`
	Checks  []struct {
		Name       string             `json:"name"`
		Status     healthcheck.Status `json:"status"`
		Message    string             `json:"message"`
		DurationMS float64            `json:"duration_ms"`
	} `json:"checks"`
}

func run(opts Options, out io.Writer) int {
	client := &http.Client{Timeout: opts.Timeout}

	var lastErr error
	for attempt := 0; attempt <= opts.RetryCount; attempt++ {
		if attempt > 0 {
			if opts.Verbose {
				fmt.Fprintf(out, "Retrying in %v... (attempt %d/%d)\n", opts.RetryDelay, attempt, opts.RetryCount)
			}
			time.Sleep(opts.RetryDelay)
		}

		resp, err := client.Get(opts.URL)
		if err != nil {
			lastErr = err
			if opts.Verbose {
				fmt.Fprintf(out, "Request failed: %v\n", err)
			}
			continue
		}

		var r report
		err = json.NewDecoder(resp.Body).Decode(&r)
		resp.Body.Close()
		if err != nil {
			fmt.Fprintf(out, "Failed to decode response: %v\n", err)
			return exitCodeError
		}
		output(out, r, opts)
		return exitCode(r.Status, healthcheck.Status(opts.ExpectedStatus))
	}

	fmt.Fprintf(out, "Health check failed after %d attempts: %v\n", opts.RetryCount+1, lastErr)
	return exitCodeError
}

// exitCode accepts degraded only when it was asked for
func exitCode(status, expected healthcheck.Status) int {
	switch status {
	case healthcheck.StatusHealthy:
		return exitCodeSuccess
	case healthcheck.StatusDegraded:
		if expected == healthcheck.StatusDegraded {
			return exitCodeSuccess
		}
	}
	return exitCodeFailure
}

func output(out io.Writer, r report, opts Options) {
	if opts.OutputFormat == "json" {
		data, _ := json.MarshalIndent(r, "", "  ")
		fmt.Fprintln(out, string(data))
		return
	}

	fmt.Fprintf(out, "Status: %s\n", r.Status)
	fmt.Fprintf(out, "Version: %s\n", r.Version)
	if opts.Verbose && len(r.Checks) > 0 {
		fmt.Fprintln(out, "\nChecks:")
		for _, check := range r.Checks {
			fmt.Fprintf(out, "  %s: %s", check.Name, check.Status)
			if check.Message != "" {
				fmt.Fprintf(out, " (%s)", check.Message)
			}
			fmt.Fprintf(out, " [%.1fms]\n", check.DurationMS)
		}
	}
}
