package service

import (
	"bytes"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

// maxReadRecorder records the largest buffer a reader was asked to fill.
type maxReadRecorder struct {
	r   io.Reader
	max int
}

func (m *maxReadRecorder) Read(p []byte) (int, error) {
	if len(p) > m.max {
		m.max = len(p)
	}
	return m.r.Read(p)
}

// countingWriter counts Write and Flush calls.
type countingWriter struct {
	bytes.Buffer
	writes  int
	flushes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func (w *countingWriter) Flush() { w.flushes++ }

func TestStream_ChunkBounded(t *testing.T) {
	const size = 4 << 20
	payload := bytes.Repeat([]byte("0123456789abcdef"), size/16)
	src := &maxReadRecorder{r: bytes.NewReader(payload)}
	dst := &countingWriter{}

	n, err := Stream(dst, src)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if n != size {
		t.Errorf("n = %d, want %d", n, size)
	}
	if !bytes.Equal(dst.Bytes(), payload) {
		t.Error("relayed bytes differ from source")
	}
	if src.max > relayChunkSize {
		t.Errorf("largest read = %d, want <= %d", src.max, relayChunkSize)
	}
	if want := size / relayChunkSize; dst.writes < want {
		t.Errorf("writes = %d, want >= %d", dst.writes, want)
	}
	if dst.flushes != dst.writes {
		t.Errorf("flushes = %d, writes = %d, want equal", dst.flushes, dst.writes)
	}
}

func TestStream_ResponseRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	n, err := Stream(rec, strings.NewReader("segment"))
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if n != 7 || rec.Body.String() != "segment" {
		t.Errorf("n = %d, body = %q", n, rec.Body.String())
	}
	if !rec.Flushed {
		t.Error("response not flushed")
	}
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("broken pipe")
	}
	w.after--
	return len(p), nil
}

func TestStream_ClientWriteError(t *testing.T) {
	src := bytes.NewReader(make([]byte, 3*relayChunkSize))
	n, err := Stream(&failingWriter{after: 1}, src)
	if !errors.Is(err, ErrClientWrite) {
		t.Fatalf("error = %v, want ErrClientWrite", err)
	}
	if n != relayChunkSize {
		t.Errorf("n = %d, want %d", n, relayChunkSize)
	}
}

type erroringReader struct{ err error }

func (r erroringReader) Read([]byte) (int, error) { return 0, r.err }

func TestStream_SourceError(t *testing.T) {
	srcErr := errors.New("upstream reset")
	_, err := Stream(io.Discard, io.MultiReader(strings.NewReader("abc"), erroringReader{srcErr}))
	if !errors.Is(err, srcErr) {
		t.Fatalf("error = %v, want %v", err, srcErr)
	}
	if errors.Is(err, ErrClientWrite) {
		t.Error("source error reported as client write failure")
	}
}
