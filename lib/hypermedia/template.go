// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package hypermedia

import (
	"github.com/yosida95/uritemplate/v3"
)

// Expand fills an RFC 6570 URI template. Variables without a value are
// left undefined, so their expressions expand to nothing. A template
// that does not parse is returned unchanged.
func Expand(template string, params map[string]string) string {
	parsed, err := uritemplate.New(template)
	if err != nil {
		return template
	}
	values := uritemplate.Values{}
	for name, value := range params {
		values.Set(name, uritemplate.String(value))
	}
	expanded, err := parsed.Expand(values)
	if err != nil {
		return template
	}
	return expanded
}
