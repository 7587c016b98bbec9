package ratelimit

import (
	"testing"
	"time"
)

func TestAllowConsumesTokens(t *testing.T) {
	l := New(3, 0.001) // negligible refill during the test

	for i := range 3 {
		if !l.Allow() {
			t.Fatalf("request %d should be allowed within the burst", i+1)
		}
	}
	if l.Allow() {
		t.Error("request beyond the burst should be rejected")
	}
}

func TestRefillRestoresTokens(t *testing.T) {
	l := New(1, 100) // refills a token in 10ms

	if !l.Allow() {
		t.Fatal("first request should be allowed")
	}
	if l.Allow() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(20 * time.Millisecond)
	if !l.Allow() {
		t.Error("token should have refilled")
	}
}

func TestTokensCappedAtBurst(t *testing.T) {
	l := New(2, 1000)
	time.Sleep(10 * time.Millisecond)

	if got := l.Available(); got > 2 {
		t.Errorf("available = %v, want at most the burst capacity 2", got)
	}
}

func TestReset(t *testing.T) {
	l := New(1, 0.001)
	if !l.Allow() {
		t.Fatal("first request should be allowed")
	}
	l.Reset()
	if !l.Allow() {
		t.Error("request after Reset should be allowed")
	}
}

func TestConcurrentAllow(t *testing.T) {
	l := New(100, 0.001)
	done := make(chan int)

	for range 10 {
		go func() {
			allowed := 0
			for range 20 {
				if l.Allow() {
					allowed++
				}
			}
			done <- allowed
		}()
	}

	total := 0
	for range 10 {
		total += <-done
	}
	if total != 100 {
		t.Errorf("allowed %d requests total, want exactly the burst 100", total)
	}
}
