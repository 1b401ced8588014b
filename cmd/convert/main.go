package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/aeolus87/currency-converter/deploy/config"
	"github.com/aeolus87/currency-converter/internal/converter/adapter/api_client/currencyapi"
	fileStore "github.com/aeolus87/currency-converter/internal/converter/adapter/store/file"
	"github.com/aeolus87/currency-converter/internal/converter/service"
	"github.com/aeolus87/currency-converter/internal/converter/session"
	"github.com/aeolus87/currency-converter/internal/entities"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg := config.NewConfig()

	svc, err := newService(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cmd := &cli.Command{
		Name:  "convert",
		Usage: "convert an amount between two currencies",
		Commands: []*cli.Command{
			{
				Name:   "currencies",
				Usage:  "list supported currencies",
				Action: currenciesAction(svc),
			},
			{
				Name:      "rate",
				Usage:     "show rates for a base currency",
				ArgsUsage: "BASE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "bypass the cache"},
				},
				Action: rateAction(svc),
			},
		},
		ArgsUsage: "AMOUNT FROM TO",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "swap", Usage: "swap FROM and TO before converting"},
		},
		Action: convertAction(svc, cfg),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

func newService(cfg *config.Config) (*service.Service, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}

	store, err := fileStore.NewStorage(filepath.Join(cacheDir, "currency-converter"), &cfg.Cache)
	if err != nil {
		return nil, err
	}

	client := currencyapi.NewClient(cfg.API.BaseURL, cfg.API.Key, cfg.API.Timeout)

	return service.NewService(store, client, cfg), nil
}

func currenciesAction(svc *service.Service) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		currencies, err := svc.LoadCurrencies(ctx)
		if err != nil {
			return err
		}

		for _, c := range currencies {
			fmt.Printf("%-5s %-6s %s\n", c.Code, c.Symbol, c.Name)
		}

		return nil
	}
}

func rateAction(svc *service.Service) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		base := cmd.Args().First()
		if base == "" {
			return fmt.Errorf("base currency is required")
		}

		if err := svc.LoadRates(ctx, base, cmd.Bool("force")); err != nil {
			if msg := svc.LastError(); msg != "" {
				return fmt.Errorf("%s", msg)
			}
			return err
		}

		snapshot, _ := svc.RatesFor(base)
		for code, rate := range snapshot.Rates {
			fmt.Printf("%-5s %.6f\n", code, rate)
		}
		fmt.Printf("last updated %s (fetched %s)\n",
			snapshot.LastUpdated, humanize.Time(snapshot.FetchedAt))

		return nil
	}
}

func convertAction(svc *service.Service, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		args := cmd.Args()
		if args.Len() != 3 {
			return fmt.Errorf("usage: convert AMOUNT FROM TO")
		}

		amount, err := strconv.ParseFloat(args.Get(0), 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args.Get(0))
		}

		sess := session.NewSession(svc, cfg.Session.SwapDelay)
		sess.SetAmount(amount)
		if err := sess.SetFrom(ctx, args.Get(1)); err != nil {
			if msg := svc.LastError(); msg != "" {
				return fmt.Errorf("%s", msg)
			}
			return err
		}
		sess.SetTo(args.Get(2))

		if cmd.Bool("swap") {
			if err := sess.Swap(ctx); err != nil {
				return err
			}
		}

		conversion, err := sess.Convert(ctx)
		if err != nil {
			if errors.Is(err, entities.ErrRatesPending) {
				return fmt.Errorf("rates are still loading, retry shortly")
			}
			return err
		}

		fmt.Printf("%.2f %s = %.2f %s (rate %.6f)\n",
			conversion.Amount, conversion.From,
			conversion.Result, conversion.To,
			conversion.Rate)
		if conversion.LastUpdated != "" {
			fmt.Printf("rates last updated %s\n", conversion.LastUpdated)
		}

		return nil
	}
}
