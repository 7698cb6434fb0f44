package pipeline

import "testing"

func TestBreakerOpensAtThreshold(t *testing.T) {
	br := NewBreaker(3)

	if br.Failure() {
		t.Error("failure 1 should not open the breaker")
	}
	if br.Failure() {
		t.Error("failure 2 should not open the breaker")
	}
	if !br.Failure() {
		t.Error("failure 3 should open the breaker")
	}
	if !br.Open() {
		t.Error("breaker should report open")
	}

	// The opening signal fires exactly once.
	if br.Failure() {
		t.Error("failures after opening should not signal again")
	}
}

func TestBreakerResetOnSuccess(t *testing.T) {
	br := NewBreaker(3)

	br.Failure()
	br.Failure()
	br.Success()

	if br.Failure() || br.Failure() {
		t.Error("count should have reset after a success")
	}
	if !br.Failure() {
		t.Error("third consecutive failure after reset should open")
	}
}

func TestBreakerStaysOpen(t *testing.T) {
	br := NewBreaker(1)
	br.Failure()

	br.Success()
	if !br.Open() {
		t.Error("a success after opening must not close the breaker")
	}
}

func TestBreakerDefaultThreshold(t *testing.T) {
	br := NewBreaker(0)
	br.Failure()
	br.Failure()
	if br.Open() {
		t.Error("breaker opened before the default threshold")
	}
	br.Failure()
	if !br.Open() {
		t.Error("breaker should open at the default threshold")
	}
}
