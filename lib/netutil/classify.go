// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
)

// IsTimeout reports whether err is a connect, read, or handshake
// timeout. Context deadlines count; explicit cancellation does not.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsCertificateError reports whether err is a TLS certificate
// verification failure.
func IsCertificateError(err error) bool {
	if err == nil {
		return false
	}
	var verificationErr *tls.CertificateVerificationError
	if errors.As(err, &verificationErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &invalidErr)
}
