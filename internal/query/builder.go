/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// Package query turns a set of selected tree nodes into a call-path filter
// expression: a JSON array of name/depth matchers and "*" wildcards.
package query

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Selected is one selected display node. X is its horizontal layout
// position; nodes of one root-to-leaf chain share it.
type Selected struct {
	FrameName string
	Depth     int
	X         float64
}

// Term is one element of a query: a wildcard, a frame name matcher or a
// depth predicate.
type Term struct {
	Name     string
	Depth    string
	Wildcard bool
}

// Wildcard matches any sequence of frames.
var Wildcard = Term{Wildcard: true}

// MarshalJSON encodes a wildcard as "*" and matchers as objects.
func (t Term) MarshalJSON() ([]byte, error) {
	switch {
	case t.Wildcard:
		return encode("*")
	case t.Depth != "":
		return encode(map[string]string{"depth": t.Depth})
	default:
		return encode(map[string]string{"name": t.Name})
	}
}

// encode marshals v without HTML escaping, so "<= 2" stays readable.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Query is an ordered filter expression.
type Query []Term

// String returns the JSON form of q.
func (q Query) String() string {
	b, err := encode(q)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Build derives the query for nodes, given in traversal order.
func Build(nodes []Selected) Query {
	switch len(nodes) {
	case 0:
		return Query{Wildcard}
	case 1:
		return Query{{Name: nodes[0].FrameName}}
	}

	shallow, deep := 0, 0
	chain := true
	for i, n := range nodes {
		if n.Depth < nodes[shallow].Depth {
			shallow = i
		}
		if n.Depth > nodes[deep].Depth {
			deep = i
		}
		if i > 0 && n.X != nodes[i-1].X {
			chain = false
		}
	}

	if chain {
		return Query{
			{Name: nodes[shallow].FrameName},
			Wildcard,
			{Name: nodes[deep].FrameName},
		}
	}
	return Query{
		{Name: nodes[shallow].FrameName},
		Wildcard,
		{Depth: "<= " + strconv.Itoa(nodes[deep].Depth)},
	}
}
