package cache

import "context"

var _ StatsCache = Nop{}

// Nop never holds a value, every read falls through to the store.
type Nop struct{}

func NewNop() Nop {
	return Nop{}
}

func (Nop) GetInt(ctx context.Context, key Key) (int, bool, error) {
	return 0, false, nil
}

func (Nop) SetInt(ctx context.Context, key Key, value int) error {
	return nil
}

func (Nop) Generation(ctx context.Context, resourceID string) (int64, error) {
	return 0, nil
}

func (Nop) SetIntAt(ctx context.Context, key Key, value int, generation int64) (bool, error) {
	return false, nil
}

func (Nop) InvalidateResource(ctx context.Context, resourceID string) error {
	return nil
}
