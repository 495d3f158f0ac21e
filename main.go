// ytce — YouTube channel & comment extractor.
//
// Scrapes channel video listings and comment threads through the public web
// surface (no API key) and writes them as jsonl/json/csv datasets. See
// `ytce --help` for the command surface.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ytce/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
