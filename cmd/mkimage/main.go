// Command mkimage concatenates a set of RISC-V ELF executables into the
// single binary blob cmd/kernel expects to find its applications in:
// an app count, a cumulative offset table, then the images back to
// back. It validates each input with debug/elf before accepting it
// (rv39kernel/loader.ParseELF).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"rv39kernel/loader"
)

func main() {
	if len(os.Args) < 3 {
		slog.Error("usage: mkimage <output-blob> <app.elf>...")
		os.Exit(1)
	}
	out := os.Args[1]
	inputs := os.Args[2:]

	images := make([][]byte, len(inputs))
	var g errgroup.Group
	for i, path := range inputs {
		i, path := i, path
		g.Go(func() error {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if _, _, err := loader.ParseELF(raw); err != nil {
				return fmt.Errorf("rejecting %s: %w", path, err)
			}
			images[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("validating app images", "err", err)
		os.Exit(1)
	}

	blob := loader.BuildBlob(images)
	if err := os.WriteFile(out, blob, 0o644); err != nil {
		slog.Error("writing blob", "path", out, "err", err)
		os.Exit(1)
	}
	fmt.Printf("mkimage: wrote %d apps (%d bytes) to %s\n", len(images), len(blob), out)
}
