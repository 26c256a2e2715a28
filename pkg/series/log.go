// Copyright (c) 2026 OpenSiFli. All rights reserved.
// SPDX-License-Identifier: MIT

package series

import (
	"log"
	"os"
)

// debugEnabled gates logf output. Set SILICONSCHEMA_DEBUG to any
// non-empty value to see internal progress logging on stderr.
var debugEnabled = os.Getenv("SILICONSCHEMA_DEBUG") != ""

// logf writes a debug log line when SILICONSCHEMA_DEBUG is set.
// User-facing progress goes to stdout via fmt; logf is for diagnosing
// the tool itself.
func logf(format string, args ...any) {
	if debugEnabled {
		log.Printf(format, args...)
	}
}
