package quizid

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func neverExists(string) (bool, error) { return false, nil }

func TestNewFormat(t *testing.T) {
	random := bytes.NewReader(bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6}, 4))

	id, err := New(random, "alice", neverExists)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !strings.HasPrefix(id, "alice-") {
		t.Fatalf("id %q missing prefix", id)
	}
	if len(id) != len("alice-")+SuffixLen {
		t.Fatalf("id %q has wrong length", id)
	}
}

func TestNewDeterministicForFixedSource(t *testing.T) {
	a, err := New(bytes.NewReader(bytes.Repeat([]byte{42}, SuffixLen)), "bob", neverExists)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(bytes.NewReader(bytes.Repeat([]byte{42}, SuffixLen)), "bob", neverExists)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a != b {
		t.Fatalf("same random source produced %q and %q", a, b)
	}
}

func TestNewRetriesOnCollision(t *testing.T) {
	random := bytes.NewReader(bytes.Repeat([]byte{7}, SuffixLen*maxAttempts))

	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return calls < 3, nil // first two candidates collide
	}

	if _, err := New(random, "carol", exists); err != nil {
		t.Fatalf("New: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 uniqueness checks, got %d", calls)
	}
}

func TestNewExhaustsRetryBudget(t *testing.T) {
	random := bytes.NewReader(bytes.Repeat([]byte{7}, SuffixLen*maxAttempts))

	alwaysTaken := func(string) (bool, error) { return true, nil }
	if _, err := New(random, "dave", alwaysTaken); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestNewPropagatesExistsError(t *testing.T) {
	random := bytes.NewReader(bytes.Repeat([]byte{7}, SuffixLen))

	boom := errors.New("store down")
	_, err := New(random, "erin", func(string) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestNewShortRandomSource(t *testing.T) {
	if _, err := New(bytes.NewReader([]byte{1, 2}), "frank", neverExists); err == nil {
		t.Fatal("expected error from truncated random source")
	}
}
