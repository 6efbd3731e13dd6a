package memory

import (
	"testing"
	"time"

	"course-assistant-be/pkg/store"
)

func TestSessionSaveGetDelete(t *testing.T) {
	repo := NewSessionRepository()

	if _, found := repo.Get("s1"); found {
		t.Fatal("unknown session should not be found")
	}

	repo.Save(&store.Session{ID: "s1", Turns: []store.Turn{{Role: store.TurnRoleUser, Text: "q"}}})
	session, found := repo.Get("s1")
	if !found || len(session.Turns) != 1 {
		t.Fatalf("saved session not retrievable: %+v", session)
	}

	repo.Delete("s1")
	if _, found := repo.Get("s1"); found {
		t.Error("deleted session still retrievable")
	}
}

func TestDeleteEvictsSessionMutex(t *testing.T) {
	repo := NewSessionRepository()

	release := repo.Lock("s1")
	repo.Save(&store.Session{ID: "s1"})
	repo.Delete("s1")
	release()

	if _, found := repo.locks.Load("s1"); found {
		t.Error("deleting a session must not leave its mutex behind")
	}
}

func TestLockSerializesSameSession(t *testing.T) {
	repo := NewSessionRepository()

	release := repo.Lock("s1")
	acquired := make(chan struct{})
	go func() {
		inner := repo.Lock("s1")
		close(acquired)
		inner()
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("second Lock on the same session acquired while held")
	default:
	}

	release()
	<-acquired
}
