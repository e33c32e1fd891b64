package sessions

import (
	"testing"
	"time"
)

func TestPutGetTake(t *testing.T) {
	s := New[string](time.Minute)
	key := Key(1001, 42)

	id := s.Put(key, "hello")
	if id == "" {
		t.Fatal("Put returned empty session id")
	}

	sess, ok := s.Get(key)
	if !ok || sess.Value != "hello" {
		t.Fatalf("Get() = %+v, %v", sess, ok)
	}
	if sess.ID != id {
		t.Errorf("session id = %q, want %q", sess.ID, id)
	}

	// Get does not consume
	if _, ok := s.Get(key); !ok {
		t.Fatal("session vanished after Get")
	}

	// Take consumes
	if _, ok := s.Take(key); !ok {
		t.Fatal("Take() found nothing")
	}
	if _, ok := s.Get(key); ok {
		t.Fatal("session survived Take")
	}
}

func TestExpiry(t *testing.T) {
	s := New[int](10 * time.Millisecond)
	key := Key(1, 2)
	s.Put(key, 7)

	time.Sleep(30 * time.Millisecond)

	if _, ok := s.Get(key); ok {
		t.Error("expired session still returned by Get")
	}
	if _, ok := s.Take(key); ok {
		t.Error("expired session still returned by Take")
	}
}

func TestPutReplaces(t *testing.T) {
	s := New[int](time.Minute)
	key := Key(1, 2)
	s.Put(key, 1)
	s.Put(key, 2)

	sess, ok := s.Get(key)
	if !ok || sess.Value != 2 {
		t.Errorf("Get() = %+v, %v, want value 2", sess, ok)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s := New[int](time.Minute)
	s.Put(Key(1, 2), 1)

	if _, ok := s.Get(Key(1, 3)); ok {
		t.Error("different user leaked into session")
	}
	if _, ok := s.Get(Key(2, 2)); ok {
		t.Error("different chat leaked into session")
	}
}
