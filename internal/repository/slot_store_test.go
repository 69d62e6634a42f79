package repository

import (
	"errors"
	"testing"
)

func TestMemorySlotStoreGetSetRemove(t *testing.T) {
	store := NewMemorySlotStore()

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Fatalf("missing key want ok=false err=nil got ok=%v err=%v", ok, err)
	}
	if err := store.Set("a", []byte(`{"x":1}`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, ok, err := store.Get("a")
	if err != nil || !ok {
		t.Fatalf("get want hit got ok=%v err=%v", ok, err)
	}
	if string(value) != `{"x":1}` {
		t.Fatalf("value want {\"x\":1} got %s", string(value))
	}

	value[0] = 'X'
	again, _, _ := store.Get("a")
	if string(again) != `{"x":1}` {
		t.Fatalf("stored value should not be mutated through returned slice, got %s", string(again))
	}

	if err := store.Remove("a"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok, _ := store.Get("a"); ok {
		t.Fatalf("removed key should be gone")
	}
}

func TestMemorySlotStoreKeysAndUsage(t *testing.T) {
	store := NewMemorySlotStore()
	_ = store.Set("admin_session:b", []byte("22"))
	_ = store.Set("admin_session:a", []byte("1"))
	_ = store.Set("other", []byte("333"))

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
	want := int64(len("admin_session:b") + 2 + len("admin_session:a") + 1 + len("other") + 3)
	if usage != want {
		t.Fatalf("usage want %d got %d", want, usage)
	}
}

func TestQuotaSlotStoreRejectsOversizedWrite(t *testing.T) {
	inner := NewMemorySlotStore()
	store := NewQuotaSlotStore(inner, 20)

	if err := store.Set("k", []byte("0123456789")); err != nil {
		t.Fatalf("first write within quota failed: %v", err)
	}
	err := store.Set("k2", []byte("0123456789"))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if _, ok, _ := inner.Get("k2"); ok {
		t.Fatalf("rejected write should not be stored")
	}

	// 覆盖同一个键时按差值计算
	if err := store.Set("k", []byte("0123456789abcdefgh")); err != nil {
		t.Fatalf("overwrite within quota failed: %v", err)
	}
}

func TestQuotaSlotStoreExemptPrefix(t *testing.T) {
	inner := NewMemorySlotStore()
	store := NewQuotaSlotStore(inner, 20, "admin_")

	if err := store.Set("data", []byte("0123456789abcdef")); err != nil {
		t.Fatalf("fill within quota failed: %v", err)
	}
	if err := store.Set("other", []byte("0123456789")); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("regular key over quota want ErrQuotaExceeded got %v", err)
	}
	if err := store.Set("admin_session:t1", []byte("0123456789")); err != nil {
		t.Fatalf("exempt key should bypass quota, got %v", err)
	}
	used, _ := store.Usage()
	if used <= 20 {
		t.Fatalf("exempt key should still count towards usage, got %d", used)
	}
}

func TestQuotaSlotStoreUnlimited(t *testing.T) {
	store := NewQuotaSlotStore(NewMemorySlotStore(), 0)
	big := make([]byte, 1<<16)
	if err := store.Set("big", big); err != nil {
		t.Fatalf("unlimited store should accept any size: %v", err)
	}
}

func TestGetJSONSetJSON(t *testing.T) {
	store := NewMemorySlotStore()
	type payload struct {
		Name string `json:"name"`
	}
	if err := SetJSON(store, "p", payload{Name: "张三"}); err != nil {
		t.Fatalf("set json failed: %v", err)
	}
	var got payload
	ok, err := GetJSON(store, "p", &got)
	if err != nil || !ok {
		t.Fatalf("get json want hit got ok=%v err=%v", ok, err)
	}
	if got.Name != "张三" {
		t.Fatalf("name want 张三 got %s", got.Name)
	}

	_ = store.Set("broken", []byte("{not json"))
	if _, err := GetJSON(store, "broken", &got); !errors.Is(err, ErrSlotCorrupt) {
		t.Fatalf("broken json want ErrSlotCorrupt got %v", err)
	}
}

type unreachableSlotStore struct {
	*MemorySlotStore
}

func (s unreachableSlotStore) Get(string) ([]byte, bool, error) {
	return nil, false, errors.New("redis: i/o timeout")
}

func TestGetJSONKeepsBackendErrors(t *testing.T) {
	store := unreachableSlotStore{NewMemorySlotStore()}
	var got map[string]string
	ok, err := GetJSON(store, "p", &got)
	if ok || err == nil {
		t.Fatalf("backend failure want error got ok=%v err=%v", ok, err)
	}
	if errors.Is(err, ErrSlotCorrupt) {
		t.Fatalf("backend failure must not be reported as corrupt data: %v", err)
	}
}
