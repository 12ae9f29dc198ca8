package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ijuttt/cctview/internal/aggregate"
	"github.com/ijuttt/cctview/internal/app"
	"github.com/ijuttt/cctview/internal/forest"
	"github.com/spf13/cobra"
)

var queryConfig struct {
	nodes []string
	tree  int
}

var queryCmd = &cobra.Command{
	Use:   "query <forest.json> --node <frame>...",
	Short: "print the call-path query selecting the named frames",
	Long: `Select the first node of each named frame in one tree, with no pruning
applied, and print the call-path query of that selection as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringArrayVarP(
		&queryConfig.nodes, "node", "n", nil, "frame name to select (repeatable)")
	queryCmd.Flags().IntVar(
		&queryConfig.tree, "tree", 0, "tree to select from")
	_ = queryCmd.MarkFlagRequired("node")
}

func runQuery(cmd *cobra.Command, args []string) error {
	c, err := loadController(args[0], func(s *forest.SessionState) {
		s.Mode = aggregate.ModeNone
		s.PruneEnabled = false
	})
	if err != nil {
		return errors.Wrapf(err, "query %s", args[0])
	}

	refs, err := findFrames(c, queryConfig.tree, queryConfig.nodes)
	if err != nil {
		return err
	}
	if err := c.Brush(refs); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), c.Query().String())
	return nil
}

// findFrames returns the first node in preorder of each named frame.
func findFrames(c *app.Controller, tree int, names []string) ([]forest.NodeRef, error) {
	f := c.Forest()
	wt := f.WorkingTree(tree)
	if wt == nil {
		return nil, errors.Newf("tree %d out of range [0, %d)", tree, f.NumTrees())
	}

	refs := make([]forest.NodeRef, 0, len(names))
	for _, name := range names {
		found := aggregate.NoNode
		wt.Walk(func(n *aggregate.WorkingNode) bool {
			if found == aggregate.NoNode && !n.IsAggregate() && wt.FrameName(n.ID) == name {
				found = n.ID
			}
			return found == aggregate.NoNode
		})
		if found == aggregate.NoNode {
			return nil, errors.Newf("no frame %q in tree %d", name, tree)
		}
		refs = append(refs, f.Ref(tree, found))
	}
	return refs, nil
}
