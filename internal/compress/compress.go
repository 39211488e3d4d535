package compress

import "fmt"

// Compress encodes the templates kept as source baselines. Name is stored next to
// the encoded bytes so they can be decoded after the configured codec changed.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
	Name() string
}

var codecs = map[string]func() Compress{
	"":       func() Compress { return NewNop() },
	"none":   func() Compress { return NewNop() },
	"nop":    func() Compress { return NewNop() },
	"gzip":   func() Compress { return NewGZip() },
	"brotli": func() Compress { return NewBrotli() },
	"lz4":    func() Compress { return NewLZ4() },
}

// New returns the codec registered under name.
func New(name string) (Compress, error) {
	codec, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("unknown compression: %s", name)
	}

	return codec(), nil
}

// Nop stores templates as they are.
type Nop struct{}

func NewNop() Nop { return Nop{} }

func (Nop) Name() string { return "nop" }

func (Nop) Encode(data []byte) ([]byte, error) { return data, nil }

func (Nop) Decode(data []byte) ([]byte, error) { return data, nil }
