package model

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrDataShape is the sentinel matched by every DataShapeError.
var ErrDataShape = errors.New("malformed input tree")

// DataShapeError reports a node of the input forest that lacks a metric
// every node must carry.
type DataShapeError struct {
	Tree   int
	Node   string
	Metric string
}

func (e *DataShapeError) Error() string {
	if e.Metric == "" {
		return fmt.Sprintf("tree %d: node %q has no metrics", e.Tree, e.Node)
	}
	return fmt.Sprintf("tree %d: node %q is missing metric %q", e.Tree, e.Node, e.Metric)
}

// Is makes errors.Is(err, ErrDataShape) hold for any DataShapeError.
func (e *DataShapeError) Is(target error) bool {
	return target == ErrDataShape
}
