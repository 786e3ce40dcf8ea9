package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const validTopologyYAML = `
nodes:
  - name: src
    type: source
  - name: dst
    type: sink
edges:
  - from: src
    from_port: 0
    to: dst
    to_port: 0
initials: []
`

const malformedTopologyYAML = `
nodes:
  - name: src
edges: []
`

func TestLoadTopology_Valid(t *testing.T) {
	topo, err := LoadTopology([]byte(validTopologyYAML))
	require.NoError(t, err)
	require.Len(t, topo.Nodes, 2)
	require.Len(t, topo.Edges, 1)
}

func TestLoadTopology_SchemaRejection(t *testing.T) {
	_, err := LoadTopology([]byte(malformedTopologyYAML))
	require.Error(t, err)
}

func TestLoadTopology_InvalidYAML(t *testing.T) {
	_, err := LoadTopology([]byte("not: [valid"))
	require.Error(t, err)
}

func TestTopology_Apply_BuildsAndWiresNetwork(t *testing.T) {
	received := make(chan int, 1)
	r := NewRegistry()
	r.RegisterFactory("source", sourceFactory(7))
	r.RegisterFactory("sink", sinkFactory(received))

	topo, err := LoadTopology([]byte(validTopologyYAML))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, topo.Apply(ctx, r))

	require.NoError(t, r.StartNetwork(ctx))
	defer r.StopNetwork(ctx)

	select {
	case v := <-received:
		require.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("network built from topology never delivered the message")
	}
}

func TestTopology_Apply_UnknownComponentType(t *testing.T) {
	r := NewRegistry()
	topo, err := LoadTopology([]byte(validTopologyYAML))
	require.NoError(t, err)

	err = topo.Apply(context.Background(), r)
	require.Error(t, err)
}
