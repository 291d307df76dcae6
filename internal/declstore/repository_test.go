package declstore

import (
	"path/filepath"
	"testing"
	"time"
)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	r, err := OpenAt(filepath.Join(t.TempDir(), "hureg.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSave_Insert(t *testing.T) {
	r := tempRepo(t)

	record := &Record{Domain: " Example.HU ", RequestID: 42, Hash: "abc", Environment: "test"}
	if err := r.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if record.ID == 0 {
		t.Error("expected ID to be assigned after insert")
	}
	if record.Status != StatusPending {
		t.Errorf("expected status %q, got %q", StatusPending, record.Status)
	}
	if record.Domain != "example.hu" {
		t.Errorf("expected normalised domain, got %q", record.Domain)
	}
	if record.CreatedAt.IsZero() || record.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestSave_UpdateMissing(t *testing.T) {
	r := tempRepo(t)

	if err := r.Save(&Record{ID: 99, Domain: "example.hu", RequestID: 1}); err == nil {
		t.Error("expected error updating a missing record")
	}
}

func TestPending(t *testing.T) {
	r := tempRepo(t)

	older := &Record{Domain: "example.hu", RequestID: 1, Environment: "live", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &Record{Domain: "example.hu", RequestID: 2, Hash: "h2", Environment: "live"}
	other := &Record{Domain: "example.hu", RequestID: 3, Environment: "test"}
	for _, rec := range []*Record{older, newer, other} {
		if err := r.Save(rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := r.Pending("EXAMPLE.hu", "live")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.RequestID != 2 || got.Hash != "h2" {
		t.Fatalf("expected newest live record, got %+v", got)
	}

	if err := r.MarkSubmitted(2); err != nil {
		t.Fatal(err)
	}
	got, err = r.Pending("example.hu", "live")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.RequestID != 1 {
		t.Fatalf("expected older record after submit, got %+v", got)
	}

	got, err = r.Pending("missing.hu", "live")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown domain, got %+v", got)
	}
}

func TestListPending(t *testing.T) {
	r := tempRepo(t)

	for i, name := range []string{"a.hu", "b.hu", "c.hu"} {
		rec := &Record{Domain: name, RequestID: int64(i + 1), CreatedAt: time.Now().Add(time.Duration(i) * time.Minute)}
		if err := r.Save(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.MarkSubmitted(2); err != nil {
		t.Fatal(err)
	}

	records, err := r.ListPending()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 pending records, got %d", len(records))
	}
	if records[0].Domain != "c.hu" || records[1].Domain != "a.hu" {
		t.Errorf("unexpected order: %s, %s", records[0].Domain, records[1].Domain)
	}
}

func TestDeleteOlderThan(t *testing.T) {
	r := tempRepo(t)

	if err := r.Save(&Record{Domain: "example.hu", RequestID: 1}); err != nil {
		t.Fatal(err)
	}

	n, err := r.DeleteOlderThan(time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected fresh record to survive, removed %d", n)
	}

	n, err = r.DeleteOlderThan(-time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 removal, got %d", n)
	}
}
