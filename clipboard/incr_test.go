package clipboard

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ChunkData_SplitsIntoBoundedPieces(t *testing.T) {
	data := make([]byte, incrChunkBytesDefault*2+10)
	for i := range data {
		data[i] = byte(i)
	}

	chunks := chunkData(data, incrChunkBytesDefault)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], incrChunkBytesDefault)
	require.Len(t, chunks[1], incrChunkBytesDefault)
	require.Len(t, chunks[2], 10)

	var reassembled []byte
	for _, c := range chunks {
		reassembled = append(reassembled, c...)
	}
	require.True(t, bytes.Equal(data, reassembled))
}

func Test_ChunkData_EmptyInputYieldsSingleEmptyChunk(t *testing.T) {
	chunks := chunkData(nil, incrChunkBytesDefault)
	require.Len(t, chunks, 1)
	require.Empty(t, chunks[0])
}

func Test_ChunkData_ExactMultipleDoesNotAppendTrailingEmptyChunk(t *testing.T) {
	data := make([]byte, incrChunkBytesDefault*2)
	chunks := chunkData(data, incrChunkBytesDefault)
	require.Len(t, chunks, 2)
}

func Test_ChunkData_HonorsCustomChunkSize(t *testing.T) {
	data := make([]byte, 100)
	chunks := chunkData(data, 30)
	require.Len(t, chunks, 4)
	require.Len(t, chunks[0], 30)
	require.Len(t, chunks[3], 10)
}

func Test_IncrReceiveState_AppendAccumulatesUntilEmptyChunk(t *testing.T) {
	var s incrReceiveState

	done := s.append([]byte("hello "))
	require.False(t, done)
	done = s.append([]byte("world"))
	require.False(t, done)
	require.Equal(t, "hello world", string(s.buf))

	done = s.append(nil)
	require.True(t, done)
}
