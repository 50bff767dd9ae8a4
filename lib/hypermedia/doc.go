// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package hypermedia is a small client for the platform's HAL-style
// JSON API.
//
// Every response is an [Entity]: a JSON object whose "_links" member
// maps relation names to links ({"href", "method", "templated"}) and
// whose "_embedded" member holds nested entities. Navigation happens by
// relation name: [Entity.Follow] requests a link with its declared
// method, [Entity.Run] does the same with a JSON body. Attribute access
// goes through tidwall/gjson paths.
//
// Failed requests return *[Error], carrying the HTTP status and any
// field-level errors from the body's "errors" array. A 2xx response
// that still reports field errors is treated as a failure too.
package hypermedia
