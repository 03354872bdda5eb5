package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	nhttp "net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"go-sol-display"
	"go-sol-display/config"
	"go-sol-display/exchange"
	"go-sol-display/format"
	"go-sol-display/http"
	"go-sol-display/rates"
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "soldisplay",
		Short:        "Render SOL and USDC contributions in USD",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")

	root.AddCommand(
		newServeCommand(&configPath),
		newFormatCommand(),
		newDriftCommand(&configPath),
	)
	return root
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the display API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			convertService := newExchangeService(ctx, cfg, logger)
			handler := http.NewServer(convertService)

			srv := &nhttp.Server{Addr: cfg.Addr, Handler: handler}
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdown)
			}()

			level.Info(logger).Log("msg", "listening", "addr", cfg.Addr, "reference", cfg.Reference.Enabled)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nhttp.ErrServerClosed) {
				return err
			}
			level.Info(logger).Log("msg", "stopped")
			return nil
		},
	}
}

func newFormatCommand() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "format <amount>",
		Short: "Print the display strings for a contribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[0], display.ErrInvalidAmount)
			}
			amount := display.Amount(f)
			c, err := display.ParseCurrency(currency)
			if err != nil {
				return err
			}
			if err := amount.ValidateFor(c); err != nil {
				return err
			}

			usd := amount
			if c == display.NativeAsset {
				usd = format.SolToUsd(amount)
			}
			d := format.FormatContribution(amount, c)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "primary:   %s\n", d.Primary)
			fmt.Fprintf(out, "secondary: %s\n", d.Secondary)
			fmt.Fprintf(out, "compact:   %s\n", format.FormatCurrency(usd))
			return nil
		},
	}
	cmd.Flags().StringVar(&currency, "currency", string(display.NativeAsset), "contribution currency (SOL or USDC)")
	return cmd
}

func newDriftCommand(configPath *string) *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Compare the static rate with the market reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			c, err := display.ParseCurrency(currency)
			if err != nil {
				return err
			}
			// drift always needs the reference, whatever the serve setting is
			cfg.Reference.Enabled = true
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			d, err := newExchangeService(ctx, cfg, logger).Drift(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s static=%v market=%v deviation=%.2f%%\n", d.Currency, d.Static, d.Market, d.Deviation)
			return nil
		},
	}
	cmd.Flags().StringVar(&currency, "currency", string(display.NativeAsset), "currency to check (SOL or USDC)")
	return cmd
}

func newLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, levelOption(lvl))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return logger
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// newExchangeService wires the rate sources and decorators. Reference refresh loops end with ctx.
func newExchangeService(ctx context.Context, cfg config.Config, logger log.Logger) exchange.Service {
	static := rates.NewStaticService()

	var reference rates.Service
	if cfg.Reference.Enabled {
		reference = rates.NewCoinbaseService(cfg.Reference.URL, cfg.Reference.Timeout)
		reference = rates.NewLoggingService(level.Debug(log.With(logger, "component", "coinbase_rest")), reference)
		reference = rates.NewCachingService(ctx, cfg.Reference.Refresh, log.With(logger, "component", "coinbase_cache"), reference)
	}

	convertService := exchange.NewService(static, reference)
	convertService = exchange.NewLoggingService(level.Debug(log.With(logger, "component", "exchange")), convertService)
	return convertService
}
