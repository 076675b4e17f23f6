package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/config"
	"github.com/meikuraledutech/flow/editor"
	"github.com/meikuraledutech/flow/memory"
	"github.com/meikuraledutech/flow/postgres"
	"github.com/meikuraledutech/flow/redis"
)

func main() {
	fs := pflag.NewFlagSet("flow-server", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatal("config", "err", err)
	}
	logger := cfg.Logger(os.Stderr)

	ctx := context.Background()
	slot, closeSlot, err := openSlot(ctx, cfg)
	if err != nil {
		logger.Fatal("open save slot", "backend", cfg.Slot.Backend, "err", err)
	}
	defer closeSlot()

	g := flow.New()
	g.ReplaceAll(flow.WelcomeNodes(), nil)
	ed := editor.New(slot,
		editor.WithGraph(g),
		editor.WithLogger(logger),
		editor.WithSlotKey(cfg.Slot.Key),
	)

	app := newApp(ed)
	logger.Info("listening", "addr", cfg.Addr, "slot", cfg.Slot.Backend)
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal("listen", "err", err)
	}
}

func openSlot(ctx context.Context, cfg *config.Config) (flow.SlotStore, func(), error) {
	switch cfg.Slot.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		store := postgres.New(pool)
		if err := store.CreateSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("schema: %w", err)
		}
		return store, pool.Close, nil
	case config.BackendRedis:
		store, err := redis.NewStore(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return memory.New(), func() {}, nil
}
