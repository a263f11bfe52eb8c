// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package reactive

import (
	"sync"
	"testing"
)

func TestDirtyLevelOrdering(t *testing.T) {
	if !(Idle < DirtyPaint && DirtyPaint < DirtyLayout && DirtyLayout < DirtyStyle) {
		t.Fatal("dirty levels out of order")
	}
}

func TestEscalateIsMonotonicMax(t *testing.T) {
	cases := []struct {
		a, b, want DirtyLevel
	}{
		{Idle, Idle, Idle},
		{Idle, DirtyPaint, DirtyPaint},
		{DirtyLayout, DirtyPaint, DirtyLayout},
		{DirtyPaint, DirtyStyle, DirtyStyle},
		{DirtyStyle, Idle, DirtyStyle},
	}
	for _, c := range cases {
		if got := Escalate(c.a, c.b); got != c.want {
			t.Errorf("Escalate(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestDirtyLevelString(t *testing.T) {
	for level, want := range map[DirtyLevel]string{
		Idle:          "idle",
		DirtyPaint:    "paint",
		DirtyLayout:   "layout",
		DirtyStyle:    "style",
		DirtyLevel(9): "DirtyLevel(9)",
	} {
		if got := level.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

type nopComponent struct{ boxApp }

func TestDispatcherFIFO(t *testing.T) {
	var d Dispatcher
	c := &nopComponent{}
	for i := 0; i < 3; i++ {
		d.Send(c, seq{n: i})
	}
	if d.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", d.Pending())
	}
	q := d.drain()
	for i, env := range q {
		if env.msg.(seq).n != i {
			t.Fatalf("message %d out of order: %v", i, env.msg)
		}
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() after drain = %d, want 0", d.Pending())
	}
}

func TestDispatcherDropsNilTarget(t *testing.T) {
	var d Dispatcher
	d.Send(nil, seq{n: 1})
	if d.Pending() != 0 {
		t.Error("nil target was queued")
	}
}

func TestDispatcherConcurrentSend(t *testing.T) {
	var d Dispatcher
	c := &nopComponent{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.Send(c, seq{n: j})
			}
		}()
	}
	wg.Wait()
	if d.Pending() != 800 {
		t.Fatalf("Pending() = %d, want 800", d.Pending())
	}
}
