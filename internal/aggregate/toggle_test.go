package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleCollapseAndExpandPlainNode(t *testing.T) {
	tree := loadTree(t, sample)
	wt, err := Prune(tree, "time", ModeNone, 0, 1)
	require.NoError(t, err)

	// preorder: R=0 a=1 a1=2 b=3 b1=4 b2=5 c=6 d=7
	b, ok := wt.Lookup(3)
	require.True(t, ok)
	require.Equal(t, "b", wt.FrameName(b))

	action, err := wt.ToggleManual(b)
	require.NoError(t, err)
	assert.Equal(t, ActionCollapse, action)
	assert.Equal(t, "R(11)[a(0)[a1(0)] <b>(7) c(0) d(3)]", shape(wt))
	assert.False(t, wt.Visible(b))

	s := wt.Node(wt.Root()).Children[1]
	assert.Equal(t, ManuallyCollapsed, wt.Node(s).State)
	assert.Equal(t, []NodeID{b}, wt.Node(s).Elided)
	assert.Equal(t, 7.0, wt.Node(s).AggregateMetrics["time"])
	assert.Equal(t, 3.0, wt.Node(s).AggregateMetrics["alloc"])

	action, err = wt.ToggleManual(s)
	require.NoError(t, err)
	assert.Equal(t, ActionExpand, action)
	assert.Equal(t, "R(11)[a(0)[a1(0)] b(7)[b1(2) b2(0)] c(0) d(3)]", shape(wt))
	assert.True(t, wt.Visible(b))
	assert.False(t, wt.Visible(s))
}

func TestToggleExpandsAutoSurrogateInPlace(t *testing.T) {
	tree := loadTree(t, sample)
	wt, err := Prune(tree, "time", ModeFlagOutliers, 4, 1)
	require.NoError(t, err)
	require.Equal(t, "R(11)[{a c d}(3) b(7)[{b1 b2}(2)]]", shape(wt))

	s := wt.Node(wt.Root()).Children[0]
	action, err := wt.ToggleManual(s)
	require.NoError(t, err)
	assert.Equal(t, ActionExpand, action)
	assert.Equal(t, "R(11)[a(0)[a1(0)] c(0) d(3) b(7)[{b1 b2}(2)]]", shape(wt))

	// Restored nodes are plain wrappers again.
	for _, id := range wt.Node(wt.Root()).Children[:3] {
		assert.Equal(t, Expanded, wt.Node(id).State)
		assert.Nil(t, wt.Node(id).AggregateMetrics)
	}
}

func TestToggleSingleElidedAutoSurrogate(t *testing.T) {
	tree := loadTree(t, sample)
	wt, err := Prune(tree, "time", ModeFlagZeros, 0, 1)
	require.NoError(t, err)
	require.Equal(t, "R(11)[{a c}(0) b(7)[b1(2) {b2}(0)] d(3)]", shape(wt))

	bID, _ := wt.Lookup(3)
	s := wt.Node(bID).Children[1]
	_, err = wt.ToggleManual(s)
	require.NoError(t, err)
	assert.Equal(t, "R(11)[{a c}(0) b(7)[b1(2) b2(0)] d(3)]", shape(wt))
}

func TestToggleRootWrapsChildren(t *testing.T) {
	tree := loadTree(t, sample)
	wt, err := Prune(tree, "time", ModeFlagZeros, 0, 1)
	require.NoError(t, err)
	before := shape(wt)

	action, err := wt.ToggleManual(wt.Root())
	require.NoError(t, err)
	assert.Equal(t, ActionCollapse, action)
	assert.Equal(t, "R(11)[<a b d>(10)]", shape(wt))

	s := wt.Node(wt.Root()).Children[0]
	// The auto surrogate inside contributes its aggregate metrics.
	assert.Equal(t, 10.0, wt.Node(s).AggregateMetrics["time"])
	assert.Equal(t, 11.0, wt.Node(s).AggregateMetrics["alloc"])

	action, err = wt.ToggleManual(wt.Root())
	require.NoError(t, err)
	assert.Equal(t, ActionExpand, action)
	assert.Equal(t, before, shape(wt))
}

func TestToggleChildlessRootIsNoop(t *testing.T) {
	tree := loadTree(t, `{"name": "only", "frame": {"name": "only"}, "metrics": {"time": 1}}`)
	wt, err := Prune(tree, "time", ModeNone, 0, 1)
	require.NoError(t, err)

	action, err := wt.ToggleManual(wt.Root())
	require.NoError(t, err)
	assert.Equal(t, ActionNone, action)
	assert.Equal(t, "only(1)", shape(wt))
}

func TestToggleTwiceRestoresEveryNode(t *testing.T) {
	tree := loadTree(t, sample)

	for _, mode := range []Mode{ModeNone, ModeFlagZeros, ModeFlagOutliers} {
		baseline, err := Prune(tree, "time", mode, 4, 1)
		require.NoError(t, err)
		want := shape(baseline)

		for _, id := range baseline.VisibleNodes() {
			wt, err := Prune(tree, "time", mode, 4, 1)
			require.NoError(t, err)

			_, err = wt.ToggleManual(id)
			require.NoError(t, err, "mode %s node %d first toggle", mode, id)
			_, err = wt.ToggleManual(id)
			require.NoError(t, err, "mode %s node %d second toggle", mode, id)

			assert.Equal(t, want, shape(wt), "mode %s node %d", mode, id)
			assert.Equal(t, baseline.VisibleNodes(), wt.VisibleNodes(), "mode %s node %d", mode, id)
		}
	}
}

func TestToggleStaleReferences(t *testing.T) {
	tree := loadTree(t, sample)
	wt, err := Prune(tree, "time", ModeFlagOutliers, 4, 7)
	require.NoError(t, err)

	_, err = wt.ToggleManual(NodeID(999))
	assert.ErrorIs(t, err, ErrStaleNode)

	_, err = wt.ToggleManual(NoNode)
	assert.ErrorIs(t, err, ErrStaleNode)

	// a1 sits inside an auto-elided subtree: not part of the working tree.
	a1, visible := wt.Lookup(2)
	require.False(t, visible)
	_, err = wt.ToggleManual(a1)
	assert.ErrorIs(t, err, ErrStaleNode)
	assert.Contains(t, err.Error(), "generation 7")

	// An expanded surrogate whose nodes were rearranged cannot come back.
	s := wt.Node(wt.Root()).Children[0]
	_, err = wt.ToggleManual(s)
	require.NoError(t, err)
	a, _ := wt.Lookup(1)
	_, err = wt.ToggleManual(a)
	require.NoError(t, err)
	_, err = wt.ToggleManual(s)
	assert.ErrorIs(t, err, ErrStaleNode)
}
