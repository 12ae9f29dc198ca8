/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package model

import (
	"bytes"
	"encoding/json"
	"os"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
)

// MaxFileSize is the maximum allowed forest file size (64 MiB).
const MaxFileSize = 64 * 1024 * 1024

// LoadForest reads and parses a forest JSON file.
func LoadForest(path string) (*Forest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot stat %s", path)
	}

	if info.Size() > MaxFileSize {
		return nil, errors.Newf("file %s exceeds maximum size (%d bytes)", path, MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}

	return ParseForest(data)
}

// ParseForest decodes a forest from JSON. The document is either an array
// of tree objects or a single tree object.
func ParseForest(data []byte) (*Forest, error) {
	var roots []*InputNode

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var root InputNode
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return nil, errors.Wrap(err, "cannot parse JSON")
		}
		roots = []*InputNode{&root}
	} else if err := json.Unmarshal(trimmed, &roots); err != nil {
		return nil, errors.Wrap(err, "cannot parse JSON")
	}

	return BuildForest(roots)
}

// BuildForest converts decoded input trees into immutable ProfileTrees.
// Every node must carry every metric of the first tree's root; a missing
// value is a DataShapeError, never a default.
func BuildForest(roots []*InputNode) (*Forest, error) {
	f := &Forest{Trees: make([]*ProfileTree, 0, len(roots))}

	if len(roots) > 0 && roots[0] != nil {
		if roots[0].Metrics == nil {
			return nil, &DataShapeError{Tree: 0, Node: displayName(roots[0])}
		}
		for m := range roots[0].Metrics {
			f.MetricColumns = append(f.MetricColumns, m)
		}
		sort.Strings(f.MetricColumns)
	}

	attrs := make(map[string]struct{})
	for i, root := range roots {
		if root == nil {
			return nil, errors.Newf("tree %d is null", i)
		}
		t := &ProfileTree{Index: i}
		if err := t.add(root, NoNode, 0, f.MetricColumns, attrs); err != nil {
			return nil, err
		}
		t.finish()
		f.Trees = append(f.Trees, t)
	}

	for a := range attrs {
		f.AttributeColumns = append(f.AttributeColumns, a)
	}
	sort.Strings(f.AttributeColumns)

	return f, nil
}

// add appends n and its descendants in preorder.
func (t *ProfileTree) add(n *InputNode, parent NodeID, depth int, metrics []string, attrs map[string]struct{}) error {
	if n.Metrics == nil {
		return &DataShapeError{Tree: t.Index, Node: displayName(n)}
	}

	node := ProfileNode{
		ID:        NodeID(len(t.Nodes)),
		Parent:    parent,
		Depth:     depth,
		Name:      n.Name,
		FrameName: n.Frame.Name,
		Metrics:   make(map[string]float64, len(metrics)),
	}
	if node.FrameName == "" {
		node.FrameName = n.Name
	}
	for _, m := range metrics {
		v, ok := n.Metrics[m]
		if !ok {
			return &DataShapeError{Tree: t.Index, Node: displayName(n), Metric: m}
		}
		node.Metrics[m] = v
	}
	if len(n.Attributes) > 0 {
		node.Attributes = make(map[string]string, len(n.Attributes))
		for k, v := range n.Attributes {
			node.Attributes[k] = attributeString(v)
			attrs[k] = struct{}{}
		}
	}

	id := node.ID
	t.Nodes = append(t.Nodes, node)
	if parent != NoNode {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, id)
	}
	if depth > t.height {
		t.height = depth
	}

	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if err := t.add(c, id, depth+1, metrics, attrs); err != nil {
			return err
		}
	}
	return nil
}

// finish computes the per-node subtree metric sums. Children always have
// larger preorder indices than their parent, so a reverse sweep is a
// postorder accumulation.
func (t *ProfileTree) finish() {
	t.subtree = make([]map[string]float64, len(t.Nodes))
	for i := len(t.Nodes) - 1; i >= 0; i-- {
		n := &t.Nodes[i]
		sum := make(map[string]float64, len(n.Metrics))
		for m, v := range n.Metrics {
			sum[m] = v
		}
		for _, c := range n.Children {
			for m, v := range t.subtree[c] {
				sum[m] += v
			}
		}
		t.subtree[i] = sum
	}
}

func displayName(n *InputNode) string {
	if n.Frame.Name != "" {
		return n.Frame.Name
	}
	return n.Name
}

func attributeString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
