package selection_test

import (
	"testing"

	"github.com/forzaops/registro/internal/domain/selection"
	"github.com/stretchr/testify/require"
)

func TestEnterReplacesSelection(t *testing.T) {
	c := selection.New()
	c.Enter("a")
	c.Toggle("b")
	require.Equal(t, 2, c.Count())

	c.Enter("c")
	require.True(t, c.Active())
	require.Equal(t, []string{"c"}, c.Selected())
}

func TestToggle(t *testing.T) {
	c := selection.New()
	c.Enter("a")

	c.Toggle("b")
	require.True(t, c.Contains("b"))

	c.Toggle("b")
	require.False(t, c.Contains("b"))
	require.True(t, c.Contains("a"))
}

func TestToggleAll_SelectsVisible(t *testing.T) {
	c := selection.New()
	c.Enter("stale")

	c.ToggleAll([]string{"a", "b", "c"})

	require.Equal(t, 3, c.Count())
	require.False(t, c.Contains("stale"))
	require.True(t, c.Contains("a"))
}

func TestToggleAll_ClearsWhenAllVisibleSelected(t *testing.T) {
	c := selection.New()
	c.Enter("a")
	c.Toggle("b")

	c.ToggleAll([]string{"a", "b"})

	require.Equal(t, 0, c.Count())
	require.True(t, c.Active())
}

func TestToggleAll_PartialOverlapReplaces(t *testing.T) {
	c := selection.New()
	c.Enter("a")
	c.Toggle("x")

	c.ToggleAll([]string{"a", "b"})

	require.True(t, c.Contains("a"))
	require.True(t, c.Contains("b"))
	require.False(t, c.Contains("x"))
}

func TestToggleAll_EmptyVisibleClears(t *testing.T) {
	c := selection.New()
	c.Enter("a")

	c.ToggleAll(nil)

	require.Equal(t, 0, c.Count())
}

func TestExitClears(t *testing.T) {
	c := selection.New()
	c.Enter("a")
	c.Exit()

	require.False(t, c.Active())
	require.Equal(t, 0, c.Count())
}
