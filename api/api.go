// Package api exposes a graphrel.Store over HTTP with fiber.
package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/meikuraledutech/graphrel"
)

// New builds the fiber app serving store. A nil metrics gets a private registry.
func New(store graphrel.Store, logger *zap.Logger, metrics *Metrics) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	h := &handlers{store: store, log: logger.Named("api"), metrics: metrics}

	app := fiber.New()
	app.Use(recoverer.New())
	app.Use(h.logRequest)

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", h.createSchema)
	app.Delete("/schema", h.dropSchema)

	// ── Nodes ─────────────────────────────────────────────────────────
	app.Post("/nodes", h.addNode)
	app.Get("/nodes", h.listNodes)
	app.Get("/nodes/:id", h.getNode)
	app.Put("/nodes/:id", h.updateNode)
	app.Delete("/nodes/:id", h.deleteNode)

	// ── Relationships ─────────────────────────────────────────────────
	app.Post("/createRel", h.createRel)
	app.Get("/relationships", h.listRelationships)
	app.Get("/relationships/:id", h.getRelationship)
	app.Delete("/relationships/:id", h.deleteRelationship)

	return app
}

type handlers struct {
	store   graphrel.Store
	log     *zap.Logger
	metrics *Metrics
}

func (h *handlers) logRequest(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return err
}

func (h *handlers) internalError(c fiber.Ctx, err error) error {
	h.log.Error("store error", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func (h *handlers) createSchema(c fiber.Ctx) error {
	if err := h.store.CreateSchema(c.Context()); err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema created"})
}

func (h *handlers) dropSchema(c fiber.Ctx) error {
	if err := h.store.DropSchema(c.Context()); err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema dropped"})
}

func (h *handlers) addNode(c fiber.Ctx) error {
	var node graphrel.Node
	if err := c.Bind().JSON(&node); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	id, err := h.store.AddNode(c.Context(), &node)
	if err != nil {
		return h.internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *handlers) listNodes(c fiber.Ctx) error {
	nodes, err := h.store.ListNodes(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(nodes)
}

func (h *handlers) getNode(c fiber.Ctx) error {
	n, err := h.store.GetNode(c.Context(), c.Params("id"))
	if err != nil {
		return h.internalError(c, err)
	}
	if n == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "node not found"})
	}
	return c.JSON(n)
}

func (h *handlers) updateNode(c fiber.Ctx) error {
	var node graphrel.Node
	if err := c.Bind().JSON(&node); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	node.ID = c.Params("id")
	err := h.store.UpdateNode(c.Context(), &node)
	if errors.Is(err, graphrel.ErrNodeNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "node not found"})
	}
	if err != nil {
		return h.internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) deleteNode(c fiber.Ctx) error {
	if err := h.store.DeleteNode(c.Context(), c.Params("id")); err != nil {
		return h.internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// createRel answers 200 with the stored relationship. Every other status is
// treated by clients as a plain failure.
func (h *handlers) createRel(c fiber.Ctx) error {
	var req graphrel.CreateRelRequest
	if err := c.Bind().JSON(&req); err != nil {
		h.metrics.createFailed("invalid_body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	rel, err := h.store.CreateRelationship(c.Context(), &req)
	switch {
	case errors.Is(err, graphrel.ErrInvalidRelationship):
		h.metrics.createFailed("invalid")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, graphrel.ErrNodeNotFound):
		h.metrics.createFailed("node_not_found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "node not found"})
	case err != nil:
		h.metrics.createFailed("store")
		return h.internalError(c, err)
	}

	h.metrics.relationshipCreated()
	h.log.Info("relationship created",
		zap.String("id", rel.ID),
		zap.String("name", rel.Name),
		zap.Stringer("direction", rel.Direction),
	)
	return c.Status(fiber.StatusOK).JSON(rel)
}

func (h *handlers) listRelationships(c fiber.Ctx) error {
	rels, err := h.store.ListRelationships(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(rels)
}

func (h *handlers) getRelationship(c fiber.Ctx) error {
	r, err := h.store.GetRelationship(c.Context(), c.Params("id"))
	if err != nil {
		return h.internalError(c, err)
	}
	if r == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "relationship not found"})
	}
	return c.JSON(r)
}

func (h *handlers) deleteRelationship(c fiber.Ctx) error {
	if err := h.store.DeleteRelationship(c.Context(), c.Params("id")); err != nil {
		return h.internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
