package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"rollbook/internal/app"
	"rollbook/internal/config"
	"rollbook/internal/logging"
)

func main() {
	cfg := config.Load()
	lg, err := logging.Init("warn", cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lg.Closer()

	svc, err := app.Open(context.Background(), cfg, lg.Base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cli := &commandLine{svc: svc, out: os.Stdout}
	err = cli.run(os.Args)
	_ = svc.Close()
	if err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
