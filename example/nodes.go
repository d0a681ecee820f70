package main

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/client"

	"github.com/meikuraledutech/graphrel"
)

// addNode registers n on the store at host.
func addNode(ctx context.Context, host string, n graphrel.Node) error {
	resp, err := client.New().SetBaseURL(host).Post("/nodes", client.Config{
		Ctx:    ctx,
		Header: map[string]string{fiber.HeaderContentType: fiber.MIMEApplicationJSON},
		Body:   n,
	})
	if err != nil {
		return err
	}
	defer resp.Close()
	if resp.StatusCode() != fiber.StatusCreated {
		return fmt.Errorf("add node %s: status %d", n.ID, resp.StatusCode())
	}
	return nil
}
