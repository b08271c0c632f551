package main

import (
	"log/slog"
	"os"

	"rv39kernel/loader"
	"rv39kernel/sbi"
)

func main() {
	if len(os.Args) != 2 {
		slog.Error("usage: kernel <app-image-blob>")
		os.Exit(1)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		slog.Error("reading app image blob", "err", err)
		os.Exit(1)
	}

	blob, err := loader.LoadBlob(raw)
	if err != nil {
		slog.Error("parsing app image blob", "err", err)
		os.Exit(1)
	}

	if _, err := Boot(blob); err != nil {
		slog.Error("boot failed", "err", err)
		os.Exit(1)
	}

	Run()
	sbi.Shutdown()
}
