package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/meikuraledutech/graphrel"
	"github.com/meikuraledutech/graphrel/connect"
	"github.com/meikuraledutech/graphrel/graphstate"
	"github.com/meikuraledutech/graphrel/internal/config"
	"github.com/meikuraledutech/graphrel/internal/logging"
	"github.com/meikuraledutech/graphrel/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := logging.New("info", "console")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	// Start an in-memory store on a free port.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln, &config.Config{}, logger) }()
	host := "http://" + ln.Addr().String()

	cfg := connect.Config{Host: host, ErrorMessageTimeout: 3 * time.Second, RequestTimeout: 5 * time.Second}

	// The host's view of the graph. Every control event lands here.
	graph := graphstate.New(logger)
	graph.Load([]graphrel.Node{{ID: "alice", Label: "Alice"}, {ID: "bob", Label: "Bob"}}, nil)

	board := connect.NewNoticeBoard(graph, cfg.ErrorMessageTimeout, nil)
	defer board.Close()

	submit := func(name string, doubleSided bool) {
		graph.SelectNode("alice")
		graph.SelectNode("bob")
		d := connect.New(cfg, graph.OpenAddBox(), graph, board, connect.WithLogger(logger))
		outcome := d.Submit(ctx, connect.Draft{Name: name, DoubleSided: doubleSided})
		fmt.Printf("submit %q: %s (notice %q, open %v)\n", name, outcome, graph.Notice(), graph.AddBoxOpen())
	}

	// ── Nodes exist only locally: the store answers 404 ───────────────
	submit("knows", false)

	// ── Blank name: the control stays open with a notice ──────────────
	submit("   ", false)

	// ── Seed the store, then create for real ──────────────────────────
	for _, n := range graph.Nodes() {
		if err := addNode(ctx, host, n); err != nil {
			log.Fatalf("add node: %v", err)
		}
	}
	submit("knows", false)
	submit("collaborates", true)

	fmt.Println("relationships:")
	for _, rel := range graph.Relationships() {
		fmt.Printf("  %s %s -> %s (%s)\n", rel.Name, rel.FromID, rel.ToID, rel.Direction)
	}

	cancel()
	if err := <-done; err != nil {
		logger.Error("server", zap.Error(err))
	}
}
