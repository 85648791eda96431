package market

import (
	"testing"
	"time"
)

func TestScheduler_RejectsBadInterval(t *testing.T) {
	eng, _, _ := quietEngine()

	if _, err := NewScheduler(eng, 0); err == nil {
		t.Error("Zero interval must be rejected")
	}
	if _, err := NewScheduler(eng, -time.Second); err == nil {
		t.Error("Negative interval must be rejected")
	}
	if _, err := NewScheduler(eng, time.Minute); err != nil {
		t.Errorf("Valid interval rejected: %v", err)
	}
}

func TestScheduler_StartTicksImmediately(t *testing.T) {
	eng, notifier, _ := quietEngine()
	sched, err := NewScheduler(eng, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := sched.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer sched.Stop()

	// One tick fires synchronously on Start; the hour-long period never
	// elapses within the test.
	if notifier.updates != 1 {
		t.Errorf("Expected the immediate tick, got %d updates", notifier.updates)
	}
	if eng.GetPrice(allTestCards()[0].Key, false).IsZero() {
		t.Error("Catalog should be registered after the first tick")
	}
}
