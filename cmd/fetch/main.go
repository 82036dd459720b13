package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/slinet/ehfetch/internal/client"
	"github.com/slinet/ehfetch/internal/client/parser"
	"github.com/slinet/ehfetch/internal/config"
	"github.com/slinet/ehfetch/internal/database"
	"github.com/slinet/ehfetch/internal/logger"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	// Load default config to get log level
	cfg, _ := config.Load("config.yaml")
	logLevel := "info"
	if cfg != nil {
		logLevel = cfg.LogLevel
	}

	// Initialize logger
	log, err := logger.New(logLevel, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	switch command {
	case "fetch":
		runFetch(log, os.Args[2:])
	case "queue":
		runQueue(log, os.Args[2:])
	case "favorites":
		runFavorites(log, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: ehfetch <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  fetch             Fetch and print gallery details as JSON")
	fmt.Println("                    Usage: ehfetch fetch <gid>/<token> [<gid>/<token> ...]")
	fmt.Println("                    Options: -config <path> -host <host>")
	fmt.Println("  queue             Queue galleries for download in the database")
	fmt.Println("                    Usage: ehfetch queue <gid>/<token> [<gid>/<token> ...]")
	fmt.Println("                    Options: -config <path> -label <label>")
	fmt.Println("  favorites         Manage local favorites")
	fmt.Println("                    Usage: ehfetch favorites list")
	fmt.Println("                    Or: ehfetch favorites add <gid>/<token>")
	fmt.Println("                    Or: ehfetch favorites remove <gid>")
	fmt.Println("\nExamples:")
	fmt.Println("  ehfetch fetch 123456/abcdef0123")
	fmt.Println("  ehfetch queue 123456/abcdef0123 -label artbooks")
	fmt.Println("  ehfetch favorites list")
}

// runFetch fetches gallery detail pages and prints parsed details
func runFetch(log *zap.Logger, args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	host := fs.String("host", "", "e-hentai.org or exhentai.org (overrides config)")
	if err := fs.Parse(args); err != nil {
		log.Fatal("failed to parse flags", zap.Error(err))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	if *host != "" {
		cfg.Client.Host = *host
	}

	if len(fs.Args()) == 0 {
		log.Fatal("no galleries specified")
	}

	siteClient, err := client.New(&cfg.Client)
	if err != nil {
		log.Fatal("failed to initialize client", zap.Error(err))
	}

	env := parser.Env{
		CommentThreshold: cfg.Download.CommentThreshold,
		Logger:           log,
	}
	retryCfg := client.RetryConfig{
		MaxRetries:     cfg.Client.RetryTimes,
		Logger:         log,
		WaitForIPUnban: cfg.Client.WaitForIPUnban,
	}

	ctx := context.Background()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, arg := range fs.Args() {
		gid, token, ok := client.ParseGalleryURL(arg)
		if !ok {
			log.Fatal("invalid gallery reference", zap.String("arg", arg))
		}

		body, err := client.Retry(retryCfg, func() (string, error) {
			return siteClient.GetDetailPage(ctx, gid, token)
		})
		if err != nil {
			log.Fatal("failed to fetch gallery", zap.Int64("gid", gid), zap.Error(err))
		}

		detail, err := parser.ParseGalleryDetail(ctx, body, env)
		if err != nil {
			log.Fatal("failed to parse gallery", zap.Int64("gid", gid), zap.Error(err))
		}

		if err := enc.Encode(detail); err != nil {
			log.Fatal("failed to encode detail", zap.Error(err))
		}
	}
}

// runQueue records galleries as pending downloads; the daemon picks them
// up on the next start-all
func runQueue(log *zap.Logger, args []string) {
	fs := flag.NewFlagSet("queue", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	label := fs.String("label", "", "download label")
	if err := fs.Parse(args); err != nil {
		log.Fatal("failed to parse flags", zap.Error(err))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	if len(fs.Args()) == 0 {
		log.Fatal("no galleries specified")
	}

	if err := database.Init(&cfg.Database, log); err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	store := database.NewDownloadStore(log)
	ctx := context.Background()

	for _, arg := range fs.Args() {
		gid, token, ok := client.ParseGalleryURL(arg)
		if !ok {
			log.Fatal("invalid gallery reference", zap.String("arg", arg))
		}
		d := &database.Download{
			Gid:   gid,
			Token: token,
			Label: *label,
			State: database.StateWait,
		}
		if err := store.Upsert(ctx, d); err != nil {
			log.Fatal("failed to queue download", zap.Int64("gid", gid), zap.Error(err))
		}
		log.Info("queued", zap.Int64("gid", gid))
	}
}

// runFavorites manages local favorites
func runFavorites(log *zap.Logger, args []string) {
	fs := flag.NewFlagSet("favorites", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	if err := fs.Parse(args); err != nil {
		log.Fatal("failed to parse flags", zap.Error(err))
	}

	if len(fs.Args()) == 0 {
		log.Fatal("favorites requires a subcommand: list, add or remove")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	if err := database.Init(&cfg.Database, log); err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	store := database.NewFavoriteStore(log)
	ctx := context.Background()

	switch fs.Args()[0] {
	case "list":
		favorites, err := store.List(ctx)
		if err != nil {
			log.Fatal("failed to list favorites", zap.Error(err))
		}
		for _, f := range favorites {
			fmt.Printf("%d/%s\t%s\n", f.Gid, f.Token, f.Title)
		}
	case "add":
		if len(fs.Args()) < 2 {
			log.Fatal("add requires a gid/token pair")
		}
		gid, token, ok := client.ParseGalleryURL(fs.Args()[1])
		if !ok {
			log.Fatal("invalid gallery reference", zap.String("arg", fs.Args()[1]))
		}
		if err := store.Put(ctx, &database.LocalFavorite{Gid: gid, Token: token}); err != nil {
			log.Fatal("failed to add favorite", zap.Error(err))
		}
		log.Info("favorite added", zap.Int64("gid", gid))
	case "remove":
		if len(fs.Args()) < 2 {
			log.Fatal("remove requires a gid")
		}
		gid, err := strconv.ParseInt(fs.Args()[1], 10, 64)
		if err != nil || gid <= 0 {
			log.Fatal("invalid gid", zap.String("arg", fs.Args()[1]))
		}
		if err := store.Remove(ctx, gid); err != nil {
			log.Fatal("failed to remove favorite", zap.Error(err))
		}
		log.Info("favorite removed", zap.Int64("gid", gid))
	default:
		log.Fatal("unknown favorites subcommand", zap.String("subcommand", fs.Args()[0]))
	}
}
