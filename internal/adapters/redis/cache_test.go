package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "nightspot/internal/adapters/redis"
	"nightspot/internal/domain"
)

func newCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_SetGet(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	coord := domain.Coordinate{Lat: 10.48, Lng: -66.87}
	if err := c.Set(ctx, "geo:av. principal 1", coord, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got domain.Coordinate
	ok, err := c.Get(ctx, "geo:av. principal 1", &got)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got != coord {
		t.Fatalf("got %+v, want %+v", got, coord)
	}
}

func TestCache_MissAndDel(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	var got domain.Coordinate
	if ok, err := c.Get(ctx, "geo:absent", &got); err != nil || ok {
		t.Fatalf("miss: ok=%v err=%v", ok, err)
	}

	_ = c.Set(ctx, "geo:x", domain.Coordinate{Lat: 1}, 60)
	if err := c.Del(ctx, "geo:x"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if ok, _ := c.Get(ctx, "geo:x", &got); ok {
		t.Fatal("key survived Del")
	}
}
