package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/datasheet-tools/settings-generator/internal/pkg/cli"
	"github.com/datasheet-tools/settings-generator/internal/pkg/env"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem/aferofs"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
)

func main() {
	// Cancel the context on Ctrl+C
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	fsFactory := func(logger log.Logger, workingDir string) (filesystem.Fs, error) {
		return aferofs.NewLocalFs(workingDir, aferofs.WithLogger(logger))
	}

	// Run command
	cmd := cli.NewRootCommand(os.Stdin, os.Stdout, os.Stderr, env.FromOs(), fsFactory)
	exitCode := cmd.Execute(ctx)
	cancel()
	os.Exit(exitCode)
}
