package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join("testdata", "rules.sel"),
		filepath.Join("testdata", "tree.yaml"),
	})

	err := cmd.Execute()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "trace_text", buf.Bytes())
}

func TestTraceJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join("testdata", "rules.sel"),
		filepath.Join("testdata", "tree.yaml"),
	})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, fixtureSheetHash, resp.Data.SheetHash)
	require.Len(t, resp.Data.Nodes, 4)

	// The root is visited with one Init cursor per rule.
	root := resp.Data.Nodes[0]
	assert.Equal(t, "/div", root.Path)
	assert.Equal(t, []string{"(0,0,init)", "(1,0,init)"}, root.Cursors)
	assert.Empty(t, root.Matched)

	// The child combinator cursor (1,1) is consumed after one level:
	// the grandchild inherits a smaller set than its parent did.
	assert.Len(t, resp.Data.Nodes[2].Cursors, 4)
	assert.Len(t, resp.Data.Nodes[3].Cursors, 3)
}

func TestTracePathFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join("testdata", "rules.sel"),
		filepath.Join("testdata", "tree.yaml"),
		"--path", "/div/span[0]",
	})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Data TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Len(t, resp.Data.Nodes, 1)
	assert.Equal(t, "/div/span[0]", resp.Data.Nodes[0].Path)
	assert.Equal(t, []int{0, 1}, resp.Data.Nodes[0].Matched)
}

func TestTracePathNotFound(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join("testdata", "rules.sel"),
		filepath.Join("testdata", "tree.yaml"),
		"--path", "/div/nope[9]",
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "no node at path")
}

func TestTraceMissingSheet(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/sheet.sel", filepath.Join("testdata", "tree.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
