package movies

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestCache_ReuseAndInvalidate(t *testing.T) {
	p := writeFixture(t, fixtureCSV)
	c := NewCache(testLogger(t))

	a, err := c.Get(p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, err := c.Get(p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.ID != b.ID || a.Dataset != b.Dataset {
		t.Fatal("unchanged source should reuse the snapshot")
	}
	if a.ID == "" || a.LoadedAt.IsZero() {
		t.Fatalf("snapshot identity not set: %+v", a)
	}

	c.Invalidate(p)
	if c.Len() != 0 {
		t.Fatalf("len after invalidate = %d", c.Len())
	}
	d, err := c.Get(p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.ID == a.ID {
		t.Fatal("invalidated snapshot was reused")
	}
}

func TestCache_ReloadsChangedFile(t *testing.T) {
	p := writeFixture(t, fixtureCSV)
	c := NewCache(testLogger(t))
	a, err := c.Get(p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	extra := fixtureCSV + "Extra,2015-01-01,Drama,\"$1,000\",\"$5,000\",,\n"
	if err := os.WriteFile(p, []byte(extra), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	b, err := c.Get(p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.ID == a.ID || b.Dataset.Len() != 4 {
		t.Fatalf("changed source not reloaded: len=%d", b.Dataset.Len())
	}
}

func TestCache_MissingFile(t *testing.T) {
	c := NewCache(testLogger(t))
	_, err := c.Get("/nonexistent/movies.csv")
	var dse *DataSourceError
	if !errors.As(err, &dse) {
		t.Fatalf("want DataSourceError, got %v", err)
	}
}

func TestCache_WatchInvalidates(t *testing.T) {
	p := writeFixture(t, fixtureCSV)
	c := NewCache(testLogger(t))
	if _, err := c.Get(p); err != nil {
		t.Fatalf("Get: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, p) }()
	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	if err := os.Remove(p); err != nil {
		t.Fatalf("remove: %v", err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for c.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("removing the source did not invalidate its snapshot")
	}
}
