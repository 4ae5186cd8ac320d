package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcod-team/lcod-kernel-go/kernel"
	"github.com/lcod-team/lcod-kernel-go/types"
)

// sliceSource yields the given chunks in order, one per Next call.
type sliceSource struct {
	chunks [][]byte
	closed bool
}

func (s *sliceSource) Next() ([]byte, bool, error) {
	if len(s.chunks) == 0 {
		return nil, true, nil
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return chunk, len(s.chunks) == 0, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

func TestStreamManager_DrainsChunksInOrder(t *testing.T) {
	mgr := kernel.NewStreamManager()
	handle := mgr.CreateFromIterator(&sliceSource{chunks: [][]byte{[]byte("a"), []byte("b")}})

	first, err := mgr.Read(handle, kernel.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), first.Chunk)
	assert.False(t, first.Done)

	second, err := mgr.Read(handle, kernel.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), second.Chunk)
	assert.True(t, second.Done)
}

func TestStreamManager_ReadAfterCloseFailsWithUnknownHandle(t *testing.T) {
	mgr := kernel.NewStreamManager()
	source := &sliceSource{chunks: [][]byte{[]byte("x")}}
	handle := mgr.CreateFromIterator(source)

	released, err := mgr.Close(handle)
	require.NoError(t, err)
	assert.True(t, released)
	assert.True(t, source.closed)

	_, err = mgr.Read(handle, kernel.ReadOptions{})
	require.Error(t, err)

	kerr, ok := err.(*types.Error)
	require.True(t, ok)
	assert.Equal(t, types.UnknownHandle, kerr.Code)
}

func TestStreamManager_CloseIsIdempotent(t *testing.T) {
	mgr := kernel.NewStreamManager()
	handle := mgr.CreateFromIterator(&sliceSource{chunks: [][]byte{[]byte("x")}})

	released, err := mgr.Close(handle)
	require.NoError(t, err)
	assert.True(t, released)

	released, err = mgr.Close(handle)
	require.NoError(t, err)
	assert.False(t, released)
}
