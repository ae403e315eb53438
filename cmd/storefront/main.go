package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront-sync/internal/client/api"
	"github.com/aaravmahajanofficial/storefront-sync/internal/client/endpoint"
	"github.com/aaravmahajanofficial/storefront-sync/internal/client/session"
	"github.com/aaravmahajanofficial/storefront-sync/internal/client/shop"
	"github.com/aaravmahajanofficial/storefront-sync/internal/config"
	"github.com/shopspring/decimal"
)

const usage = `usage: storefront [-config path] [-v] <command> [flags]

commands:
  products                         list the catalog
  register -name -email -password  create an account and log in
  login -email -password           log in
  logout                           forget the stored session
  whoami                           show the logged in user
  cart                             show the cart with totals
  add -product ID [-size S] [-qty N]
  set -line ID -qty N              quantity below 1 asks before removing
  remove -line ID
  checkout -name -address -city -state -postal -country -phone [-email] [-payment COD|CARD|PAYPAL]
  orders [-page N] [-size N]
  cancel -order ID
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {

	global := flag.NewFlagSet("storefront", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }

	configPath := global.String("config", os.Getenv("STOREFRONT_CONFIG"), "path to the client config file")
	verbose := global.Bool("v", false, "verbose logging")

	if err := global.Parse(args); err != nil {
		return 2
	}

	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.LoadClientConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := api.NewHTTPClient(cfg.RequestTimeout)

	resolver := endpoint.NewResolver(endpoint.Options{
		Candidates:      cfg.Candidates(),
		ProbePath:       cfg.ProbePath,
		HTTPClient:      httpClient,
		RetryMaxElapsed: retryWindow(cfg),
		Logger:          logger,
	})

	in := bufio.NewReader(stdin)

	manager, err := shop.New(shop.Options{
		Resolver:   resolver,
		Sessions:   session.NewFileStore(cfg.SessionPath),
		HTTPClient: httpClient,
		Notifier: shop.NotifierFunc(func(n shop.Notice) {
			fmt.Fprintf(stderr, "%s: %s\n", n.Title, n.Message)
		}),
		Confirmer: shop.ConfirmerFunc(func(_ context.Context, title, message string) bool {
			fmt.Fprintf(stderr, "%s: %s [y/N] ", title, message)
			answer, _ := in.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			return answer == "y" || answer == "yes"
		}),
		DeliveryFee: decimal.NewFromFloat(cfg.DeliveryFee),
		Logger:      logger,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer manager.Close()

	if err := manager.Init(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	cmd := &command{manager: manager, out: stdout, currency: cfg.Currency}

	if err := cmd.dispatch(ctx, global.Arg(0), global.Args()[1:]); err != nil {
		var apiErr *api.Error
		if !errors.As(err, &apiErr) {
			// the manager already reported api errors through the notifier
			fmt.Fprintln(stderr, err)
		}
		return 1
	}

	return 0
}

// retryWindow enables the backoff probe only when a single backend is pinned.
func retryWindow(cfg *config.ClientConfig) time.Duration {
	if len(cfg.Candidates()) == 1 {
		return cfg.RetryMaxElapsed
	}
	return 0
}
