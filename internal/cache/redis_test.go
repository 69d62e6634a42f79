package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/wedding-candy/internal/config"
)

func TestInitRedisDisabled(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("redis should be disabled")
	}
	if err := Ping(context.Background()); err != nil {
		t.Fatalf("ping on disabled redis should be a no-op, got %v", err)
	}
}

func TestUseClientPing(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	UseClient(client, "")
	defer UseClient(nil, "")

	if !Enabled() || Prefix() != "wc" {
		t.Fatalf("want enabled with default prefix, got enabled=%v prefix=%s", Enabled(), Prefix())
	}
	if err := Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestKeyUsesConfiguredPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	UseClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), " candy: ")
	defer UseClient(nil, "")

	if got := Key("rate", "submit"); got != "candy:rate:submit" {
		t.Fatalf("key want candy:rate:submit got %s", got)
	}
	if err := Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if Enabled() {
		t.Fatalf("closed client should be disabled")
	}
}
