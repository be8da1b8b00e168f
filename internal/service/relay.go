package service

import (
	"errors"
	"io"
	"net/http"
	"sync"
)

// relayChunkSize bounds how much of a body is held in memory at once.
const relayChunkSize = 32 * 1024

var chunkPool = sync.Pool{
	New: func() any {
		b := make([]byte, relayChunkSize)
		return &b
	},
}

// ErrClientWrite marks a relay that stopped because the client side failed.
var ErrClientWrite = errors.New("write to client")

// Stream copies src to dst one chunk at a time, flushing after each chunk
// when dst supports it so manifests and segments reach the player as they
// arrive. It returns the number of bytes written.
func Stream(dst io.Writer, src io.Reader) (int64, error) {
	bufp := chunkPool.Get().(*[]byte)
	defer chunkPool.Put(bufp)
	buf := *bufp

	flusher, _ := dst.(http.Flusher)

	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, errors.Join(ErrClientWrite, werr)
			}
			if w != n {
				return written, errors.Join(ErrClientWrite, io.ErrShortWrite)
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
