package repository

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisSlotStoreTest(t *testing.T) (*RedisSlotStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return NewRedisSlotStore(client, "wc"), mr
}

func TestRedisSlotStoreGetSetRemove(t *testing.T) {
	store, mr := setupRedisSlotStoreTest(t)

	if _, ok, err := store.Get("wedding_recipients_data"); err != nil || ok {
		t.Fatalf("missing slot want ok=false err=nil got ok=%v err=%v", ok, err)
	}
	if err := store.Set("wedding_recipients_data", []byte(`[]`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !mr.Exists("wc:slot:wedding_recipients_data") {
		t.Fatalf("expected prefixed redis key to exist")
	}
	value, ok, err := store.Get("wedding_recipients_data")
	if err != nil || !ok || string(value) != `[]` {
		t.Fatalf("get want [] got %s ok=%v err=%v", string(value), ok, err)
	}
	if err := store.Remove("wedding_recipients_data"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if mr.Exists("wc:slot:wedding_recipients_data") {
		t.Fatalf("removed redis key should be gone")
	}
}

func TestRedisSlotStoreKeysAndUsage(t *testing.T) {
	store, _ := setupRedisSlotStoreTest(t)
	_ = store.Set("admin_session:a", []byte("12"))
	_ = store.Set("admin_session:b", []byte("345"))
	_ = store.Set("wedding_backup_meta", []byte("{}"))

	keys, err := store.Keys("admin_session:")
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "admin_session:a" || keys[1] != "admin_session:b" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	usage, err := store.Usage()
	if err != nil {
		t.Fatalf("usage failed: %v", err)
	}
	want := int64(len("admin_session:a") + 2 + len("admin_session:b") + 3 + len("wedding_backup_meta") + 2)
	if usage != want {
		t.Fatalf("usage want %d got %d", want, usage)
	}
}

func TestRedisSlotStoreWithQuota(t *testing.T) {
	store, _ := setupRedisSlotStoreTest(t)
	quota := NewQuotaSlotStore(store, 30)
	if err := quota.Set("a", make([]byte, 20)); err != nil {
		t.Fatalf("write within quota failed: %v", err)
	}
	if err := quota.Set("b", make([]byte, 20)); err == nil {
		t.Fatalf("write over quota should fail")
	}
}
