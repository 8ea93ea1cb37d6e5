package main

import (
	"time"

	"voxelcraft/internal/config"
)

// fpsLimiter provides high-precision frame rate limiting with a hybrid
// sleep/spin approach.
type fpsLimiter struct {
	next time.Time
}

// Wait blocks until the next frame deadline based on the FPS limit.
func (f *fpsLimiter) Wait() {
	limit := config.GetFPSLimit()
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		// Spin out the last stretch; sleeping it overshoots on high caps.
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// After a hitch, resync instead of trying to catch up.
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
