package compress

import (
	"bytes"
	"compress/gzip"
	"io"
)

// GZip trades encode time for size, templates are written once per refresh.
type GZip struct {
	level int
}

func NewGZip() GZip {
	return GZip{level: gzip.BestCompression}
}

func (g GZip) Name() string {
	return "gzip"
}

func (g GZip) Encode(data []byte) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(data)/4))
	w, err := gzip.NewWriterLevel(buf, g.level)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g GZip) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
