package service

import (
	"sync/atomic"
	"time"
)

// Clock yields the block time, in unix seconds, operations execute at.
type Clock interface {
	Now() uint64
}

type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// ManualClock only moves when told to.
type ManualClock struct {
	now atomic.Uint64
}

func NewManualClock(now uint64) *ManualClock {
	c := &ManualClock{}
	c.now.Store(now)
	return c
}

func (c *ManualClock) Now() uint64       { return c.now.Load() }
func (c *ManualClock) Set(now uint64)    { c.now.Store(now) }
func (c *ManualClock) Advance(by uint64) { c.now.Add(by) }
