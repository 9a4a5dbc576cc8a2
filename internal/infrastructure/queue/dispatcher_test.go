package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinicflow/clinic-api/internal/core/domain"
)

type stubAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
	block  chan struct{}
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.AuditEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *stubAuditRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEvent(nil), r.events...)
}

func TestAuditDispatcher_FlushesOnClose(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(3, repo, zerolog.Nop())
	d.Start()

	for _, subject := range []string{"u1", "u2", "u3", "u1"} {
		d.Record(domain.AuditEvent{Action: domain.AuditLogin, SubjectID: subject, Success: true})
	}
	d.Close()

	events := repo.snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events persisted, got %d", len(events))
	}
	for _, e := range events {
		if e.Timestamp.IsZero() {
			t.Fatalf("expected timestamp to be filled in")
		}
	}
}

func TestAuditDispatcher_PreservesPerSubjectOrder(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(8, repo, zerolog.Nop())
	d.Start()

	actions := []domain.AuditAction{domain.AuditUserCreate, domain.AuditUserUpdate, domain.AuditUserToggle, domain.AuditUserDelete}
	for _, a := range actions {
		d.Record(domain.AuditEvent{Action: a, SubjectID: "patient-42"})
	}
	d.Close()

	var got []domain.AuditAction
	for _, e := range repo.snapshot() {
		if e.SubjectID == "patient-42" {
			got = append(got, e.Action)
		}
	}
	if len(got) != len(actions) {
		t.Fatalf("expected %d events, got %d", len(actions), len(got))
	}
	for i := range actions {
		if got[i] != actions[i] {
			t.Fatalf("order mismatch at %d: %s != %s", i, got[i], actions[i])
		}
	}
}

func TestAuditDispatcher_DropsWhenFull(t *testing.T) {
	repo := &stubAuditRepo{block: make(chan struct{})}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())
	d.Start()

	// One event is held by the blocked worker, channelBuffer more fill the queue.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.AuditEvent{Action: domain.AuditLogin, SubjectID: "same"})
	}
	close(repo.block)
	d.Close()

	if n := len(repo.snapshot()); n > channelBuffer+1 {
		t.Fatalf("expected overflow to be dropped, got %d persisted", n)
	}
}

func TestAuditDispatcher_RecordAfterCloseIsDropped(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())
	d.Start()
	d.Close()
	d.Close()

	d.Record(domain.AuditEvent{Action: domain.AuditLogout, SubjectID: "u1"})
	if n := len(repo.snapshot()); n != 0 {
		t.Fatalf("expected nothing persisted after close, got %d", n)
	}
}

func TestAuditDispatcher_WriteFailureDoesNotStopWorker(t *testing.T) {
	repo := &stubAuditRepo{err: errors.New("mongo down")}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())
	d.Start()

	d.Record(domain.AuditEvent{Action: domain.AuditLogin, SubjectID: "u1"})
	d.Record(domain.AuditEvent{Action: domain.AuditLogin, SubjectID: "u1"})
	d.Close()

	if n := len(repo.snapshot()); n != 0 {
		t.Fatalf("expected failed writes not to be recorded, got %d", n)
	}
}

func TestAuditDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewAuditDispatcher(0, &stubAuditRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	if d.shardIndex("abc") != d.shardIndex("abc") {
		t.Fatalf("shard index must be deterministic")
	}
}
