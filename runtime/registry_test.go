package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh/runtime/component"
	"github.com/flowmesh/runtime/errors"
)

func sourceFactory(sendValue int) Factory {
	return func() (*component.Component, error) {
		b := component.NewBuilder("source")
		out := component.AddOutput[int](b, "out")
		sent := false
		c := b.Build(nil, func(ctx context.Context) error {
			if sent {
				time.Sleep(time.Millisecond)
				return nil
			}
			out.Send(sendValue)
			sent = true
			return nil
		})
		return c, nil
	}
}

func passthroughFactory() Factory {
	return func() (*component.Component, error) {
		b := component.NewBuilder("passthrough")
		in := component.AddInput[int](b, "in", 4)
		out := component.AddOutput[int](b, "out")
		c := b.Build(nil, func(ctx context.Context) error {
			msg := in.Receive(ctx)
			if msg.IsOkay() {
				out.Send(msg.Value)
			}
			return nil
		})
		return c, nil
	}
}

func sinkFactory(received chan int) Factory {
	return func() (*component.Component, error) {
		b := component.NewBuilder("sink")
		in := component.AddInput[int](b, "in", 4)
		c := b.Build(nil, func(ctx context.Context) error {
			msg := in.Receive(ctx)
			if msg.IsOkay() {
				select {
				case received <- msg.Value:
				default:
				}
			}
			return nil
		})
		return c, nil
	}
}

func TestRegistry_AddNode_UnknownFactory(t *testing.T) {
	r := NewRegistry()
	_, err := r.AddNode("nope", "n1")
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrUnknownFactory)
}

func TestRegistry_AddNode_DuplicateName(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory("sink", sinkFactory(make(chan int, 1)))

	_, err := r.AddNode("sink", "s1")
	require.NoError(t, err)

	_, err = r.AddNode("sink", "s1")
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrDuplicateName)
}

func TestRegistry_RegisterFactory_Replaces(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory("sink", sinkFactory(make(chan int, 1)))
	r.RegisterFactory("sink", sinkFactory(make(chan int, 1)))
	require.Equal(t, []string{"sink"}, r.Factories())
}

func TestRegistry_AddEdge_EndToEnd(t *testing.T) {
	received := make(chan int, 1)
	r := NewRegistry()
	r.RegisterFactory("source", sourceFactory(42))
	r.RegisterFactory("sink", sinkFactory(received))

	_, err := r.AddNode("source", "src")
	require.NoError(t, err)
	_, err = r.AddNode("sink", "dst")
	require.NoError(t, err)

	require.NoError(t, r.AddEdge("src", 0, "dst", 0))

	ctx := context.Background()
	require.NoError(t, r.StartNetwork(ctx))
	defer r.StopNetwork(ctx)

	select {
	case v := <-received:
		require.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("sink never received the message")
	}
}

func TestRegistry_AddEdge_UnknownName_SilentByDefault(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory("sink", sinkFactory(make(chan int, 1)))
	_, err := r.AddNode("sink", "dst")
	require.NoError(t, err)

	err = r.AddEdge("missing", 0, "dst", 0)
	require.NoError(t, err)
}

func TestRegistry_AddEdge_UnknownName_StrictErrors(t *testing.T) {
	r := NewRegistry()
	r.Strict(true)
	r.RegisterFactory("sink", sinkFactory(make(chan int, 1)))
	_, err := r.AddNode("sink", "dst")
	require.NoError(t, err)

	err = r.AddEdge("missing", 0, "dst", 0)
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrUnknownName)
}

func TestRegistry_AddEdge_SelfLoop_SilentByDefault(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory("passthrough", passthroughFactory())
	_, err := r.AddNode("passthrough", "p1")
	require.NoError(t, err)

	require.NoError(t, r.AddEdge("p1", 0, "p1", 0))

	p1, _ := r.Lookup("p1")
	require.False(t, p1.OutputPort(0).Connected())
}

func TestRegistry_AddEdge_SelfLoop_StrictErrors(t *testing.T) {
	r := NewRegistry()
	r.Strict(true)
	r.RegisterFactory("passthrough", passthroughFactory())
	_, err := r.AddNode("passthrough", "p1")
	require.NoError(t, err)

	err = r.AddEdge("p1", 0, "p1", 0)
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrSelfLoop)
}

func TestRegistry_AddEdge_DuplicateEdge_SilentByDefault(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory("source", sourceFactory(1))
	r.RegisterFactory("sink", sinkFactory(make(chan int, 1)))
	_, err := r.AddNode("source", "src")
	require.NoError(t, err)
	_, err = r.AddNode("sink", "dst1")
	require.NoError(t, err)
	_, err = r.AddNode("sink", "dst2")
	require.NoError(t, err)

	require.NoError(t, r.AddEdge("src", 0, "dst1", 0))
	require.NoError(t, r.AddEdge("src", 0, "dst2", 0))

	src, _ := r.Lookup("src")
	dst2, _ := r.Lookup("dst2")
	require.False(t, dst2.InputPort(0).Connected())
	require.True(t, src.OutputPort(0).Connected())
}

func TestRegistry_AddEdge_DuplicateEdge_StrictErrors(t *testing.T) {
	r := NewRegistry()
	r.Strict(true)
	r.RegisterFactory("source", sourceFactory(1))
	r.RegisterFactory("sink", sinkFactory(make(chan int, 1)))
	_, err := r.AddNode("source", "src")
	require.NoError(t, err)
	_, err = r.AddNode("sink", "dst1")
	require.NoError(t, err)
	_, err = r.AddNode("sink", "dst2")
	require.NoError(t, err)

	require.NoError(t, r.AddEdge("src", 0, "dst1", 0))

	err = r.AddEdge("src", 0, "dst2", 0)
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrDuplicateEdge)
}

func TestRegistry_AddEdge_PortIndexOutOfRange(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory("sink", sinkFactory(make(chan int, 1)))
	r.RegisterFactory("source", sourceFactory(1))
	_, err := r.AddNode("source", "src")
	require.NoError(t, err)
	_, err = r.AddNode("sink", "dst")
	require.NoError(t, err)

	err = r.AddEdge("src", 3, "dst", 0)
	require.Error(t, err)
}

func TestRegistry_AddInitial_InjectsBeforeStart(t *testing.T) {
	received := make(chan int, 1)
	r := NewRegistry()
	r.RegisterFactory("sink", sinkFactory(received))
	_, err := r.AddNode("sink", "dst")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, r.AddInitial(ctx, "dst", 0, 99))

	require.NoError(t, r.StartNetwork(ctx))
	defer r.StopNetwork(ctx)

	select {
	case v := <-received:
		require.Equal(t, 99, v)
	case <-time.After(time.Second):
		t.Fatal("sink never received the initial message")
	}
}

func TestRegistry_AddInitial_TypeMismatch(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory("sink", sinkFactory(make(chan int, 1)))
	_, err := r.AddNode("sink", "dst")
	require.NoError(t, err)

	err = r.AddInitial(context.Background(), "dst", 0, "not an int")
	require.Error(t, err)
}

func TestRegistry_RemoveNode_ClosesInputQueues(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory("sink", sinkFactory(make(chan int, 1)))
	sink, err := r.AddNode("sink", "dst")
	require.NoError(t, err)

	require.NoError(t, r.RemoveNode("dst"))
	require.True(t, sink.InputPort(0).Closed())

	_, ok := r.Lookup("dst")
	require.False(t, ok)
}

func TestRegistry_RemoveNode_UnknownName(t *testing.T) {
	r := NewRegistry()
	err := r.RemoveNode("nope")
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrUnknownName)
}

func TestRegistry_StartNetwork_InitializeFailureSurfacesInLastError(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory("failing", func() (*component.Component, error) {
		b := component.NewBuilder("failing")
		c := b.Build(
			func() error { return errors.WrapFatal(errors.ErrInvalidConfig, "failing", "Initialize", "boom") },
			func(ctx context.Context) error { return nil },
		)
		return c, nil
	})

	_, err := r.AddNode("failing", "f1")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, r.StartNetwork(ctx))

	joinCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c, _ := r.Lookup("f1")
	require.NoError(t, c.Join(joinCtx))
	require.Error(t, c.LastError())
}
