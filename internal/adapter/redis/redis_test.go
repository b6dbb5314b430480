package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/escalopa/quran-tajweed-bot/internal/domain"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestFSM_State(t *testing.T) {
	_, client := newTestClient(t)
	fsm := NewFSM(client)
	ctx := context.Background()

	state, err := fsm.GetState(ctx, "42")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state != domain.StateStart {
		t.Errorf("initial state = %q, want %q", state, domain.StateStart)
	}

	if err := fsm.SetState(ctx, "42", domain.StateReading); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if state, _ := fsm.GetState(ctx, "42"); state != domain.StateReading {
		t.Errorf("state = %q, want %q", state, domain.StateReading)
	}

	if err := fsm.DeleteState(ctx, "42"); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}
	if state, _ := fsm.GetState(ctx, "42"); state != domain.StateStart {
		t.Errorf("state after delete = %q", state)
	}
}

func TestFSM_Data(t *testing.T) {
	mr, client := newTestClient(t)
	fsm := NewFSM(client)
	ctx := context.Background()

	if _, err := fsm.GetData(ctx, "42", domain.SessionKeySurah); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetData on empty = %v, want ErrNotFound", err)
	}

	if err := fsm.SetData(ctx, "42", domain.SessionKeySurah, "2"); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	val, err := fsm.GetData(ctx, "42", domain.SessionKeySurah)
	if err != nil || val != "2" {
		t.Errorf("GetData = %q, %v", val, err)
	}
	if ttl := mr.TTL("fsm:data:42:surah"); ttl != defaultTTL {
		t.Errorf("TTL = %v, want %v", ttl, defaultTTL)
	}

	if err := fsm.DeleteData(ctx, "42", domain.SessionKeySurah); err != nil {
		t.Fatalf("DeleteData: %v", err)
	}
	if _, err := fsm.GetData(ctx, "42", domain.SessionKeySurah); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetData after delete = %v", err)
	}
}

func TestSpanCache(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewSpanCache(client, time.Hour)
	ctx := context.Background()

	if _, ok, err := cache.GetSpans(ctx, "t1", "text"); ok || err != nil {
		t.Fatalf("GetSpans on empty = %v, %v", ok, err)
	}

	records := []domain.SpanRecord{{Start: 0, End: 2}, {Start: 2, End: 6, Rule: "ghunnah"}}
	if err := cache.SetSpans(ctx, "t1", "text", records); err != nil {
		t.Fatalf("SetSpans: %v", err)
	}

	got, ok, err := cache.GetSpans(ctx, "t1", "text")
	if err != nil || !ok {
		t.Fatalf("GetSpans = %v, %v", ok, err)
	}
	if len(got) != 2 || got[1] != records[1] {
		t.Errorf("GetSpans = %+v", got)
	}

	// A different table must not see the entry.
	if _, ok, _ := cache.GetSpans(ctx, "t2", "text"); ok {
		t.Error("entry leaked across tables")
	}

	key := spanKey("t1", "text")
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}
	mr.FastForward(2 * time.Hour)
	if _, ok, _ := cache.GetSpans(ctx, "t1", "text"); ok {
		t.Error("entry survived its TTL")
	}
}

func TestSpanCache_Corrupt(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewSpanCache(client, 0)

	mr.Set(spanKey("t", "x"), "not json")
	if _, _, err := cache.GetSpans(context.Background(), "t", "x"); err == nil {
		t.Error("expected decode error")
	}
	if cache.ttl != defaultSpanTTL {
		t.Errorf("ttl = %v, want default", cache.ttl)
	}
}
