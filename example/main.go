package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/editor"
	"github.com/meikuraledutech/flow/layout"
	"github.com/meikuraledutech/flow/memory"
	"github.com/meikuraledutech/flow/postgres"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05.00"})
	if err := run(context.Background(), logger); err != nil {
		logger.Fatal("example failed", "err", err)
	}
}

// run is the walkthrough. Failures are returned to main.
func run(ctx context.Context, logger *log.Logger) error {
	// Save to postgres when DATABASE_URL is set, otherwise keep it in memory.
	var slot flow.SlotStore = memory.New()
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		defer pool.Close()
		store := postgres.New(pool)
		if err := store.CreateSchema(ctx); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
		slot = store
	}

	ed := editor.New(slot, editor.WithLogger(logger))

	// ── Build a small decision flow ───────────────────────────────────
	start := ed.AddNode(flow.VariantCircle)
	check := ed.AddNode(flow.VariantConditional)
	yes := ed.AddNode(flow.VariantBox)
	no := ed.AddNode(flow.VariantBox)
	end := ed.AddNode(flow.VariantDiamond)

	links := []struct{ from, to, handle string }{
		{start.ID, check.ID, ""},
		{check.ID, yes.ID, flow.HandleTrue},
		{check.ID, no.ID, flow.HandleFalse},
		{yes.ID, end.ID, ""},
		{no.ID, end.ID, ""},
	}
	for _, l := range links {
		if _, err := ed.Connect(l.from, l.to, l.handle); err != nil {
			return err
		}
	}

	// ── Inline edit: rename the conditional ───────────────────────────
	edit := ed.Edit(flow.Target{Kind: flow.KindNode, ID: check.ID})
	edit.Begin()
	edit.Set(flow.FieldLabel, "Stock check")
	edit.Set(flow.FieldCondition, "qty > 10")
	edit.Signal(flow.SignalEnter)

	// ── A dangling connection is rejected ─────────────────────────────
	if _, err := ed.Connect(start.ID, "missing", ""); err != nil {
		fmt.Println("rejected:", err)
	}

	// ── Layout, save, restore ─────────────────────────────────────────
	if err := ed.ApplyLayout(layout.Layered); err != nil {
		return err
	}
	if err := ed.Save(ctx); err != nil {
		return err
	}
	ed.Clear()
	if err := ed.Restore(ctx); err != nil {
		return err
	}

	nodes, edges := ed.Snapshot()
	fmt.Printf("\nrestored %d nodes, %d edges\n", len(nodes), len(edges))
	printJSON(nodes)

	// ── Export ────────────────────────────────────────────────────────
	name, err := ed.Export(os.Stdout)
	if err != nil {
		return err
	}
	fmt.Println("exported as", name)
	return nil
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
