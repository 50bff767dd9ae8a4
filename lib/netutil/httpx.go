// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil holds HTTP and connection helpers shared by the API
// client and the asset fetcher.
//
// [ReadResponse] and [ErrorBody] bound API response reads at
// [MaxResponseSize]. Asset downloads are streamed and do not go through
// them. [DeadlineDialer] produces connections whose every read must
// complete within a fixed idle timeout, and [IsTimeout] and
// [IsCertificateError] classify transport failures for retry decisions.
package netutil

import (
	"io"
)

// MaxResponseSize bounds API response body reads: 64 MB. Theme listings
// embed template bodies, so the limit is generous.
const MaxResponseSize int64 = 64 << 20

// ReadResponse reads an API response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an error response body for diagnostic messages. Read
// errors are ignored: a partial body is still useful.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	return string(data)
}
