package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mwantia/onedatafs"
	"github.com/mwantia/onedatafs/cache/sqlite"
	"github.com/mwantia/onedatafs/config"
	"github.com/mwantia/onedatafs/log"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file")
	zoneHost := flag.String("zone", "", "Onezone host (overrides config)")
	token := flag.String("token", "", "Access token (overrides config)")
	space := flag.String("space", "", "Space name (overrides config)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: onedatafs-cli [flags] <command> [args]")
		fmt.Fprintln(os.Stderr, "commands: ls, stat, spaces, cat, put, mkdir, rm, mv, xattr")
		os.Exit(1)
	}

	code, err := run(*configPath, *zoneHost, *token, *space, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "onedatafs-cli: %v\n", err)
	}
	os.Exit(code)
}

func run(configPath, zoneHost, token, space string, args []string) (int, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		// Flags may still complete the config.
		cfg = &config.Config{}
	}

	if zoneHost != "" {
		cfg.ZoneHost = zoneHost
	}
	if token != "" {
		cfg.Token = token
	}
	if space != "" {
		cfg.Space = space
	}
	if err := cfg.Validate(); err != nil {
		return 1, err
	}

	opts := []onedatafs.Option{
		onedatafs.WithLogLevel(log.Parse(cfg.LogLevel)),
	}
	if cfg.Space != "" {
		opts = append(opts, onedatafs.WithSpace(cfg.Space))
	}
	if cfg.Insecure {
		opts = append(opts, onedatafs.WithInsecure())
	}
	if cfg.ReadOnly {
		opts = append(opts, onedatafs.WithReadOnly())
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, onedatafs.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	if cfg.LogFile != "" {
		opts = append(opts, onedatafs.WithLogFile(cfg.LogFile))
	}
	if cfg.CachePath != "" {
		attrs, err := sqlite.New(cfg.CachePath, 5*time.Minute)
		if err != nil {
			return 1, err
		}
		opts = append(opts, onedatafs.WithAttributeCache(attrs))
	}

	f, err := onedatafs.New(cfg.ZoneHost, cfg.Token, opts...)
	if err != nil {
		return 1, err
	}
	defer f.Close()

	return f.Execute(context.Background(), args...)
}
