// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"context"
	"net"
	"time"
)

// DeadlineDialer dials with Timeout and wraps the resulting connections
// so every Read must complete within Timeout. A stalled transfer then
// fails with a timeout error instead of hanging.
type DeadlineDialer struct {
	Timeout time.Duration
	dialer  net.Dialer
}

// NewDeadlineDialer returns a dialer enforcing timeout on connect and on
// each read.
func NewDeadlineDialer(timeout time.Duration) *DeadlineDialer {
	return &DeadlineDialer{
		Timeout: timeout,
		dialer:  net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second},
	}
}

// DialContext matches http.Transport.DialContext.
func (d *DeadlineDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	connection, err := d.dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	return &deadlineConn{Conn: connection, timeout: d.Timeout}, nil
}

type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(buffer []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(buffer)
}
