package registry

import "testing"

func TestBaseRegisterAndGet(t *testing.T) {
	r := New[int]()
	if err := r.Register("a", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := r.Get("a")
	if !ok || v != 1 {
		t.Fatalf("expected (1, true), got (%d, %v)", v, ok)
	}
}

func TestBaseRegisterDuplicate(t *testing.T) {
	r := New[int]()
	_ = r.Register("a", 1)
	if err := r.Register("a", 2); err == nil {
		t.Fatal("expected error registering duplicate name")
	}
}

func TestBaseRegisterEmptyName(t *testing.T) {
	r := New[int]()
	if err := r.Register("", 1); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestBaseListPreservesOrder(t *testing.T) {
	r := New[string]()
	_ = r.Register("first", "f")
	_ = r.Register("second", "s")
	_ = r.Register("third", "t")

	names := r.Names()
	want := []string{"first", "second", "third"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("names[%d] = %q, want %q", i, names[i], n)
		}
	}
}

func TestBaseRemove(t *testing.T) {
	r := New[int]()
	_ = r.Register("a", 1)
	if err := r.Remove("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.Get("a"); ok {
		t.Fatal("expected item to be removed")
	}
	if err := r.Remove("missing"); err == nil {
		t.Fatal("expected error removing missing item")
	}
}

func TestBaseCount(t *testing.T) {
	r := New[int]()
	_ = r.Register("a", 1)
	_ = r.Register("b", 2)
	if r.Count() != 2 {
		t.Fatalf("expected count 2, got %d", r.Count())
	}
}
