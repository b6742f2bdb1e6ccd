package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"burger-storefront/config"
	"burger-storefront/internal/api"
	"burger-storefront/internal/feed"
	"burger-storefront/internal/logging"
	"burger-storefront/internal/metrics"
	"burger-storefront/internal/storage"
	"burger-storefront/internal/store"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	profile := flag.String("profile", "default", "local storage profile for the refresh credential")

	var opts options
	flag.StringVar(&opts.Email, "email", "", "log in (or register, with -name) as this email")
	flag.StringVar(&opts.Password, "password", "", "password for -email")
	flag.StringVar(&opts.Name, "name", "", "register a new account under this name")
	flag.StringVar(&opts.Rename, "rename", "", "change the profile name of the logged-in user")
	flag.StringVar(&opts.Burger, "burger", "", "comma separated ingredient ids or names to assemble and order")
	flag.StringVar(&opts.QRPath, "qr", "", "write the QR code of the placed order to this file")
	flag.BoolVar(&opts.History, "history", false, "print the logged-in user's orders")
	flag.IntVar(&opts.Lookup, "lookup", 0, "print the order with this number")
	flag.DurationVar(&opts.Follow, "follow", 0, "follow the live feed for this long")
	flag.BoolVar(&opts.Logout, "logout", false, "log out at the end")
	flag.BoolVar(&opts.Dump, "dump", false, "print the final state tree as JSON")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("info", "text").WithError(err).Fatal("failed to load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	registry := prometheus.NewRegistry()
	sinks := []store.ActionSink{metrics.New(registry)}

	var cookies storage.CookieJar = storage.NewMemoryCookieJar()
	if cfg.RedisEnabled() {
		redisClient := config.MustInitRedis(cfg)
		defer redisClient.Close()
		cookies = storage.NewRedisCookieJar(redisClient, "storefront:"+*profile+":")
	}

	var local storage.LocalStorage = storage.NewMemoryLocalStorage()
	if cfg.PostgresEnabled() {
		db := config.MustInitPostgres(cfg)
		defer db.Close()
		postgres := storage.NewPostgresLocalStorage(db, *profile)
		if err := postgres.EnsureSchema(context.Background()); err != nil {
			logger.WithError(err).Fatal("failed to prepare local storage")
		}
		local = postgres
	}

	if cfg.KafkaEnabled() {
		writer := config.NewKafkaWriter(cfg)
		defer writer.Close()
		sinks = append(sinks, storage.NewKafkaActionLog(writer, "storefront-cli"))
	}

	client := api.NewClient(api.Config{
		BaseURL:           cfg.APIBaseURL,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}, &http.Client{Timeout: 30 * time.Second}, logger)

	sessionConfig := store.DefaultSessionConfig()
	sessionConfig.AccessTTL = cfg.AccessTokenTTL

	root := store.NewRoot(store.RootDeps{
		Catalog: client,
		Auth:    client,
		Orders:  client,
		Cookies: cookies,
		Local:   local,
		Session: sessionConfig,
		QR:      store.DefaultQRGenerator{BaseURL: cfg.APIBaseURL},
		Sinks:   sinks,
		Logger:  logger,
	})
	client.UseTokenSource(root.Session.AccessToken)

	opts.FeedSource = feed.NewStream(cfg.FeedURL, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, root, opts, os.Stdout)
	root.Close()
	if err != nil {
		logger.WithError(err).Fatal("storefront failed")
	}
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
