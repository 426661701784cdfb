// tcpsend — CLI entry point.
//
// Sends one or more files to a receiver over UDP with TCP-like reliability:
// each file is split into bounded-size packets and delivered with a
// stop-and-wait protocol over its own logical connection, so all files
// transfer concurrently and independently.
//
// It can be launched interactively (no flags) or non-interactively via CLI
// flags (-dest, -port, -timeout, -files).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/kyrillosishak/TCP-over-UDP/internal/config"
	"github.com/kyrillosishak/TCP-over-UDP/internal/transfer"
	"github.com/kyrillosishak/TCP-over-UDP/internal/util"
)

var version = "dev"

func main() {
	// Root context — cancelled on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// CLI flags.
	dest := flag.String("dest", "", "Destination IP address")
	port := flag.Int("port", 0, "Destination port, 1~65535")
	timeout := flag.Float64("timeout", 0, "Retransmission timeout in seconds")
	files := flag.String("files", "", "Comma-separated list of files to send")
	retries := flag.Int("retries", 0, "Retransmissions per packet before giving up (0 = retry forever)")
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debugMode {
		util.EnableDebug()
	}

	pterm.Info.Println(fmt.Sprintf("tcpsend — v%s", version))
	pterm.Println()

	cfg := &config.Config{
		BindHost:   config.DefaultBindHost,
		MaxRetries: *retries,
	}

	if *dest == "" {
		// No -dest flag → interactive mode.
		fillInteractive(cfg)
	} else {
		cfg.DestHost = strings.TrimSpace(*dest)

		if *port < 1 || *port > 65535 {
			util.LogError("invalid or missing -port (must be 1~65535)")
			os.Exit(1)
		}
		cfg.DestPort = *port

		if *timeout <= 0 {
			util.LogError("invalid or missing -timeout (must be > 0 seconds)")
			os.Exit(1)
		}
		cfg.Timeout = secondsToDuration(*timeout)

		cfg.Files = splitFiles(*files)
		if len(cfg.Files) == 0 {
			util.LogError("missing -files (comma-separated list)")
			os.Exit(1)
		}
	}

	util.StartStatsReporter(ctx)

	if err := transfer.Send(ctx, cfg); err != nil {
		util.LogError("batch finished with errors: %v", err)
		os.Exit(1)
	}

	util.LogSuccess("all transfers complete")
}

// ---------------------------------------------------------------------------
// Interactive mode
// ---------------------------------------------------------------------------

// fillInteractive gathers the missing parameters with the same prompts the
// original interactive tool used.
func fillInteractive(cfg *config.Config) {
	cfg.DestHost = askText("Enter destination (IP)", func(s string) bool { return s != "" })
	cfg.DestPort = askPort("Enter destination (Port)")
	cfg.Timeout = secondsToDuration(askTimeout("Timeout (s)"))
	cfg.Files = askFiles("Files to send (Separated by comma)")
}

// askText prompts until valid returns true for the trimmed input.
func askText(prompt string, valid func(string) bool) string {
	for {
		raw, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText(prompt).
			Show()

		text := strings.TrimSpace(raw)
		if valid(text) {
			pterm.Println()
			return text
		}

		util.LogWarning("invalid input, please try again")
		pterm.Println()
	}
}

// askPort prompts the user for a port number until a valid one is entered.
func askPort(prompt string) int {
	for {
		raw, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText(prompt).
			Show()

		port, err := strconv.Atoi(strings.TrimSpace(raw))
		if err == nil && port >= 1 && port <= 65535 {
			pterm.Println()
			return port
		}

		util.LogWarning("invalid port number: must be 1 ~ 65535")
		pterm.Println()
	}
}

// askTimeout prompts for a positive timeout in seconds (fractions allowed).
func askTimeout(prompt string) float64 {
	for {
		raw, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText(prompt).
			Show()

		secs, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err == nil && secs > 0 {
			pterm.Println()
			return secs
		}

		util.LogWarning("invalid timeout: must be a positive number of seconds")
		pterm.Println()
	}
}

// askFiles prompts for a non-empty comma-separated file list.
func askFiles(prompt string) []string {
	for {
		raw, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText(prompt).
			Show()

		files := splitFiles(raw)
		if len(files) > 0 {
			pterm.Println()
			return files
		}

		util.LogWarning("please enter at least one file path")
		pterm.Println()
	}
}

// ---------------------------------------------------------------------------
// Helper Functions
// ---------------------------------------------------------------------------

// splitFiles turns a comma-separated list into trimmed, non-empty paths.
func splitFiles(raw string) []string {
	var files []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}

// secondsToDuration converts a floating-point second count to a Duration.
func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
