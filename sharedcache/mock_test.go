package sharedcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scmtools/cachedelta/tiered"
)

func TestMockGetSetRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewMock(0)
	if err := m.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := m.Get(context.Background(), "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v; want v, nil", got, err)
	}
	if m.GetsCount() != 1 || m.SetsCount() != 1 {
		t.Fatalf("gets=%d sets=%d, want 1/1", m.GetsCount(), m.SetsCount())
	}
}

func TestMockGetMissingReturnsErrNotFound(t *testing.T) {
	t.Parallel()

	m := NewMock(0)
	if _, err := m.Get(context.Background(), "missing"); !errors.Is(err, tiered.ErrNotFound) {
		t.Fatalf("Get(missing) = %v, want tiered.ErrNotFound", err)
	}
}

func TestMockSetWithTTLExpires(t *testing.T) {
	t.Parallel()

	m := NewMock(0)
	if err := m.SetWithTTL(context.Background(), "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := m.Get(context.Background(), "k"); !errors.Is(err, tiered.ErrNotFound) {
		t.Fatalf("Get(expired) = %v, want tiered.ErrNotFound", err)
	}
}

func TestMockFailGetsInjectsFailure(t *testing.T) {
	t.Parallel()

	m := NewMock(0)
	if err := m.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	boom := errors.New("connection reset")
	m.FailGets(boom)
	if _, err := m.Get(context.Background(), "k"); !errors.Is(err, boom) {
		t.Fatalf("Get after FailGets = %v, want %v", err, boom)
	}

	m.FailGets(nil)
	if got, err := m.Get(context.Background(), "k"); err != nil || string(got) != "v" {
		t.Fatalf("Get after clearing FailGets = %q, %v; want v, nil", got, err)
	}
}
