package provider

import (
	"testing"

	"github.com/wedding-candy/internal/cache"
	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNewSlotStoreFallsBackToMemory(t *testing.T) {
	for _, driver := range []string{"", constants.StorageDriverDatabase, constants.StorageDriverRedis, "s3"} {
		store := NewSlotStore(config.StorageConfig{Driver: driver, CapacityBytes: 1024})
		quota, ok := store.(*repository.QuotaSlotStore)
		if !ok || quota.Capacity() != 1024 {
			t.Fatalf("driver %q should be wrapped in a quota store", driver)
		}
		if err := store.Set("probe", []byte("1")); err != nil {
			t.Fatalf("driver %q fallback store not writable: %v", driver, err)
		}
	}
}

func TestNewSlotStoreUsesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.UseClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	defer cache.UseClient(nil, "")

	store := NewSlotStore(config.StorageConfig{Driver: constants.StorageDriverRedis, KeyPrefix: "candy"})
	if err := store.Set("recipients", []byte("[]")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if keys := mr.Keys(); len(keys) != 1 {
		t.Fatalf("slot should be written to redis, got keys %v", keys)
	}
}

func TestContainerCloseReleasesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.UseClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")

	if err := (&Container{}).Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if cache.Enabled() {
		t.Fatalf("redis should be released after close")
	}
	var nilContainer *Container
	if err := nilContainer.Close(); err != nil {
		t.Fatalf("nil container close should be a no-op, got %v", err)
	}
}
