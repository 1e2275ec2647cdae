package clipboard

// chunkData splits data into chunkSize-sized pieces for the INCR sender
// (§4.10): "chunk data into 4 KiB segments" by default, tunable via
// Options.IncrChunkBytes. The final chunk may be shorter; an empty input
// yields a single empty chunk so the "finish with an empty
// change_property" terminator still has something to send.
func chunkData(data []byte, chunkSize int) [][]byte {
	if len(data) == 0 {
		return [][]byte{{}}
	}
	var chunks [][]byte
	for off := 0; off < len(data); off += chunkSize {
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[off:end])
	}
	return chunks
}

// incrReceiveState tracks an in-progress INCR receive across multiple
// PropertyNotify{NewValue} events (§4.10 Open Question 3: read once on the
// initial INCR notice, then again only upon each subsequent NewValue,
// never in a tight poll loop).
type incrReceiveState struct {
	buf []byte
}

func (s *incrReceiveState) append(chunk []byte) (done bool) {
	if len(chunk) == 0 {
		return true
	}
	s.buf = append(s.buf, chunk...)
	return false
}
