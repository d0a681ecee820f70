package connect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/client"

	"github.com/meikuraledutech/graphrel"
)

// Response is what the store answered to a creation request.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport sends one creation request and returns the store's response.
// An error means no response arrived.
type Transport interface {
	CreateRel(ctx context.Context, req graphrel.CreateRelRequest) (*Response, error)
}

// FiberTransport posts creation requests with the fiber HTTP client.
type FiberTransport struct {
	client  *client.Client
	timeout time.Duration
}

// NewFiberTransport creates a transport for cfg.Host.
func NewFiberTransport(cfg Config) *FiberTransport {
	return &FiberTransport{
		client:  client.New().SetBaseURL(strings.TrimRight(cfg.Host, "/")),
		timeout: cfg.RequestTimeout,
	}
}

// CreateRel sends req as a JSON body to POST {Host}/createRel.
func (t *FiberTransport) CreateRel(ctx context.Context, req graphrel.CreateRelRequest) (*Response, error) {
	resp, err := t.client.Post(CreateRelPath, client.Config{
		Ctx:     ctx,
		Header:  map[string]string{fiber.HeaderContentType: fiber.MIMEApplicationJSON},
		Body:    req,
		Timeout: t.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect: post %s: %w", CreateRelPath, err)
	}
	defer resp.Close()

	// The response buffer is released on Close.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	return &Response{StatusCode: resp.StatusCode(), Body: body}, nil
}
