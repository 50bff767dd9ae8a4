// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is a source of the current time.
type Clock interface {
	Now() time.Time
}
