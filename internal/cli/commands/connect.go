package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meikuraledutech/graphrel"
	"github.com/meikuraledutech/graphrel/connect"
	"github.com/meikuraledutech/graphrel/graphstate"
)

type connectOptions struct {
	from        string
	to          string
	name        string
	doubleSided bool
}

// NewConnectCommand creates the connect command, which submits one
// relationship through the create-relationship control.
func NewConnectCommand() *cobra.Command {
	opts := &connectOptions{}

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Create a relationship between two nodes",
		Long: `Create a named relationship from one node to another on the graph store.

The relationship points away from --from unless --double-sided is given.`,
		Example: `  graphrel connect --from alice --to bob --name knows
  graphrel connect --from a --to b --name linked --double-sided`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConnect(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "source node ID")
	cmd.Flags().StringVar(&opts.to, "to", "", "target node ID")
	cmd.Flags().StringVar(&opts.name, "name", "", "relationship name")
	cmd.Flags().BoolVar(&opts.doubleSided, "double-sided", false, "create a NEUTRAL relationship")

	return cmd
}

func runConnect(cmd *cobra.Command, opts *connectOptions) error {
	rt := runtimeFrom(cmd.Context())
	cfg := rt.Config.Connect()
	graph := graphstate.New(rt.Logger)
	if opts.from != "" {
		graph.SelectNode(opts.from)
	}
	if opts.to != "" {
		if opts.from == "" {
			return errors.New("--to requires --from")
		}
		graph.SelectNode(opts.to)
	}

	board := connect.NewNoticeBoard(graph, cfg.ErrorMessageTimeout, nil)
	defer board.Close()

	d := connect.New(cfg, graph.OpenAddBox(), graph, board, connect.WithLogger(rt.Logger))
	outcome := d.Submit(cmd.Context(), connect.Draft{Name: opts.name, DoubleSided: opts.doubleSided})

	out := cmd.OutOrStdout()
	switch outcome {
	case connect.OutcomeCreated:
		for _, rel := range graph.Relationships() {
			_, _ = fmt.Fprintln(out, formatRelationship(rel))
		}
		return nil
	case connect.OutcomeMissingEndpoint:
		return errors.New("both --from and --to are required")
	default:
		if msg := graph.Notice(); msg != "" {
			return fmt.Errorf("%s (%s)", msg, outcome)
		}
		return fmt.Errorf("relationship not created (%s)", outcome)
	}
}

func formatRelationship(rel graphrel.Relationship) string {
	left, right := "-", "->"
	switch rel.Direction {
	case graphrel.DirectionTowards:
		left, right = "<-", "-"
	case graphrel.DirectionNeutral:
		right = "-"
	}
	return fmt.Sprintf("%s  %s %s[%s]%s %s", rel.ID, rel.FromID, left, rel.Name, right, rel.ToID)
}
