package onetime_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrymomot/authcore/pkg/delivery"
	"github.com/dmitrymomot/authcore/pkg/secretgen"
)

// fakeGenerator returns predictable secrets while hashing like the real one.
type fakeGenerator struct {
	mu      sync.Mutex
	real    secretgen.Generator
	counter int
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{real: secretgen.New()}
}

func (f *fakeGenerator) Token() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	return fmt.Sprintf("fake-token-%d", f.counter), nil
}

func (f *fakeGenerator) Code(length int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	return fmt.Sprintf("CODE%02d", f.counter%100), nil
}

func (f *fakeGenerator) Hash(secret string) string {
	return f.real.Hash(secret)
}

// recordingSender captures deliveries; fail makes every send error.
type recordingSender struct {
	mu       sync.Mutex
	messages []delivery.CodeMessage
	fail     bool
}

func (r *recordingSender) SendCode(ctx context.Context, msg delivery.CodeMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return delivery.ErrSendFailed
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingSender) sent() []delivery.CodeMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]delivery.CodeMessage(nil), r.messages...)
}
