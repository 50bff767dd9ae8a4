// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeStandsStill(t *testing.T) {
	c := Fake(epoch)
	if !c.Now().Equal(epoch) {
		t.Fatalf("Now = %v, want %v", c.Now(), epoch)
	}
	if got := c.Step(time.Second); !got.Equal(epoch.Add(time.Second)) {
		t.Errorf("Step = %v", got)
	}
	c.Advance(-time.Hour)
	if !c.Now().Equal(epoch.Add(time.Second)) {
		t.Errorf("negative Advance moved the clock to %v", c.Now())
	}
	c.Set(epoch)
	if !c.Now().Equal(epoch) {
		t.Errorf("Set: Now = %v", c.Now())
	}
}

func TestFakeConcurrentAdvance(t *testing.T) {
	c := Fake(epoch)
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(time.Millisecond)
		}()
	}
	wg.Wait()
	if got := c.Now().Sub(epoch); got != 10*time.Millisecond {
		t.Errorf("advanced %v, want 10ms", got)
	}
}

func TestRealIsCurrent(t *testing.T) {
	before := time.Now()
	now := Real().Now()
	if now.Before(before) {
		t.Errorf("Real().Now() = %v, before %v", now, before)
	}
}
