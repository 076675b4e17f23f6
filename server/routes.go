package main

import (
	"bytes"
	"errors"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/editor"
	"github.com/meikuraledutech/flow/layout"
	"github.com/meikuraledutech/flow/metrics"
)

// api serializes every request onto one editor. The graph engine is
// single-threaded; the mutex stands in for the UI event loop.
type api struct {
	mu sync.Mutex
	ed *editor.Editor
}

func newApp(ed *editor.Editor) *fiber.App {
	a := &api{ed: ed}
	app := fiber.New()
	app.Use(countRequests)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// ── Graph ─────────────────────────────────────────────────────────
	app.Get("/flow", a.locked(a.snapshot))
	app.Delete("/flow", a.locked(func(c fiber.Ctx) error {
		a.ed.Clear()
		return c.SendStatus(fiber.StatusNoContent)
	}))
	app.Get("/flow/validate", a.locked(func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"issues": a.ed.Validate()})
	}))

	// ── Nodes ─────────────────────────────────────────────────────────
	app.Post("/flow/nodes", a.locked(func(c fiber.Ctx) error {
		var body struct {
			Variant flow.Variant `json:"variant"`
		}
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if !body.Variant.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown variant"})
		}
		return c.Status(fiber.StatusCreated).JSON(a.ed.AddNode(body.Variant))
	}))

	app.Patch("/flow/nodes/:id", a.locked(func(c fiber.Ctx) error {
		var p flow.NodePatch
		if err := c.Bind().JSON(&p); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		a.ed.UpdateNode(c.Params("id"), p)
		return c.SendStatus(fiber.StatusNoContent)
	}))

	app.Delete("/flow/nodes/:id", a.locked(func(c fiber.Ctx) error {
		if c.Query("cascade") == "true" {
			a.ed.RemoveNodeCascade(c.Params("id"))
		} else {
			a.ed.RemoveNode(c.Params("id"))
		}
		return c.SendStatus(fiber.StatusNoContent)
	}))

	// ── Edges ─────────────────────────────────────────────────────────
	app.Post("/flow/edges", a.locked(func(c fiber.Ctx) error {
		var conn flow.Connection
		if err := c.Bind().JSON(&conn); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		e, err := a.ed.Connect(conn.Source, conn.Target, conn.SourceHandle)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(e)
	}))

	app.Patch("/flow/edges/:id", a.locked(func(c fiber.Ctx) error {
		var p flow.EdgePatch
		if err := c.Bind().JSON(&p); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if p.PathType != nil && !p.PathType.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown path type"})
		}
		a.ed.UpdateEdge(c.Params("id"), p)
		return c.SendStatus(fiber.StatusNoContent)
	}))

	app.Delete("/flow/edges/:id", a.locked(func(c fiber.Ctx) error {
		a.ed.RemoveEdge(c.Params("id"))
		return c.SendStatus(fiber.StatusNoContent)
	}))

	app.Put("/flow/edge-style", a.locked(func(c fiber.Ctx) error {
		var s flow.EdgeStyle
		if err := c.Bind().JSON(&s); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if !s.PathType.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown path type"})
		}
		a.ed.SetEdgeStyle(s)
		return c.SendStatus(fiber.StatusNoContent)
	}))

	// ── Batches & layout ──────────────────────────────────────────────
	app.Post("/flow/changes", a.locked(func(c fiber.Ctx) error {
		var b flow.Batch
		if err := c.Bind().JSON(&b); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		return c.JSON(a.ed.Apply(b))
	}))

	app.Post("/flow/layout/:strategy", a.locked(func(c fiber.Ctx) error {
		if err := a.ed.ApplyLayout(layout.Strategy(c.Params("strategy"))); err != nil {
			return fail(c, err)
		}
		return a.snapshot(c)
	}))

	// ── Persistence ───────────────────────────────────────────────────
	app.Post("/flow/save", a.locked(func(c fiber.Ctx) error {
		if err := a.ed.Save(c.Context()); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "flow saved"})
	}))

	app.Post("/flow/restore", a.locked(func(c fiber.Ctx) error {
		if err := a.ed.Restore(c.Context()); err != nil {
			return fail(c, err)
		}
		return a.snapshot(c)
	}))

	app.Get("/flow/export", a.locked(func(c fiber.Ctx) error {
		var buf bytes.Buffer
		name, err := a.ed.Export(&buf)
		if err != nil {
			return fail(c, err)
		}
		c.Attachment(name)
		return c.Send(buf.Bytes())
	}))

	app.Post("/flow/import", a.locked(func(c fiber.Ctx) error {
		if err := a.ed.ImportBytes(c.Body()); err != nil {
			return fail(c, err)
		}
		return a.snapshot(c)
	}))

	// ── Inline edits ──────────────────────────────────────────────────
	app.Get("/flow/edits/:kind/:id", a.locked(a.editState))

	app.Post("/flow/edits/:kind/:id/begin", a.locked(func(c fiber.Ctx) error {
		ed, err := editFor(a.ed, c)
		if err != nil {
			return err
		}
		if !ed.Begin() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "entity cannot be edited"})
		}
		return a.editState(c)
	}))

	app.Put("/flow/edits/:kind/:id/buffer", a.locked(func(c fiber.Ctx) error {
		ed, err := editFor(a.ed, c)
		if err != nil {
			return err
		}
		var body struct {
			Field flow.Field `json:"field"`
			Value string     `json:"value"`
		}
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if !ed.Set(body.Field, body.Value) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "not editing this field"})
		}
		return a.editState(c)
	}))

	app.Post("/flow/edits/:kind/:id/signal", a.locked(func(c fiber.Ctx) error {
		ed, err := editFor(a.ed, c)
		if err != nil {
			return err
		}
		var body struct {
			Signal string `json:"signal"`
		}
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		sig, err := flow.ParseSignal(body.Signal)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		ed.Signal(sig)
		return a.editState(c)
	}))

	return app
}

func (a *api) locked(h fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		a.mu.Lock()
		defer a.mu.Unlock()
		return h(c)
	}
}

func (a *api) snapshot(c fiber.Ctx) error {
	nodes, edges := a.ed.Snapshot()
	return c.JSON(fiber.Map{"nodes": nodes, "edges": edges, "version": a.ed.Graph().Version()})
}

func (a *api) editState(c fiber.Ctx) error {
	ed, err := editFor(a.ed, c)
	if err != nil {
		return err
	}
	values := map[flow.Field]string{}
	for _, f := range ed.Fields() {
		values[f] = ed.Value(f)
	}
	return c.JSON(fiber.Map{"target": ed.Target(), "state": ed.State().String(), "values": values})
}

func editFor(ed *editor.Editor, c fiber.Ctx) (*flow.InlineEdit, error) {
	kind := flow.EntityKind(c.Params("kind"))
	if kind != flow.KindNode && kind != flow.KindEdge {
		return nil, fiber.NewError(fiber.StatusBadRequest, "kind must be node or edge")
	}
	return ed.Edit(flow.Target{Kind: kind, ID: c.Params("id")}), nil
}

func fail(c fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, flow.ErrInvalidReference):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, flow.ErrMalformedDocument), errors.Is(err, layout.ErrUnknownStrategy):
		return fiber.StatusBadRequest
	case errors.Is(err, flow.ErrSlotEmpty):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func countRequests(c fiber.Ctx) error {
	err := c.Next()
	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	metrics.HTTPRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()
	return err
}
