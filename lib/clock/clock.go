// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Func adapts an ordinary function to the Clock interface.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }
