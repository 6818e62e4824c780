package rag

import (
	"sync"
	"testing"

	"aethon-assistant/models"
)

func TestSessionStoreReplaceAndClear(t *testing.T) {
	store := NewSessionStore()

	if _, ok := store.Current(); ok {
		t.Fatal("fresh store reports an active session")
	}

	ix := NewVectorIndex()
	store.Replace(models.Document{ID: "doc-1"}, ix)

	sess, ok := store.Current()
	if !ok {
		t.Fatal("no session after Replace")
	}
	if sess.Document.ID != "doc-1" || sess.Index != ix {
		t.Fatalf("unexpected session: %+v", sess)
	}

	store.Clear()
	if _, ok := store.Current(); ok {
		t.Fatal("session still active after Clear")
	}
}

func TestSessionStoreReplaceDiscardsPrevious(t *testing.T) {
	store := NewSessionStore()
	store.Replace(models.Document{ID: "old"}, NewVectorIndex())

	newIndex := NewVectorIndex()
	store.Replace(models.Document{ID: "new"}, newIndex)

	sess, ok := store.Current()
	if !ok {
		t.Fatal("no session after second Replace")
	}
	if sess.Document.ID != "new" {
		t.Errorf("active document = %s, want new", sess.Document.ID)
	}
	if sess.Index != newIndex {
		t.Error("active index is not the newly installed one")
	}
}

// Concurrent readers must always see a document/index pair that was
// installed together, never a mix of two sessions.
func TestSessionStoreConcurrentAccess(t *testing.T) {
	store := NewSessionStore()

	indexes := make(map[string]*VectorIndex)
	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		indexes[id] = NewVectorIndex()
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			id := ids[i%len(ids)]
			store.Replace(models.Document{ID: id}, indexes[id])
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				sess, ok := store.Current()
				if !ok {
					continue
				}
				if indexes[sess.Document.ID] != sess.Index {
					t.Errorf("torn session: document %s paired with wrong index", sess.Document.ID)
					return
				}
			}
		}()
	}

	wg.Wait()
}
