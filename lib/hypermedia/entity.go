// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package hypermedia

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Link is one entry of an entity's "_links".
type Link struct {
	Href      string `json:"href"`
	Method    string `json:"method,omitempty"`
	Templated bool   `json:"templated,omitempty"`
}

// Entity is one resource representation.
type Entity struct {
	client *Client
	url    string
	raw    gjson.Result
}

// URL returns the address the entity was fetched from.
func (e *Entity) URL() string { return e.url }

// Raw returns the entity's JSON.
func (e *Entity) Raw() string { return e.raw.Raw }

// Has reports whether the attribute at path exists.
func (e *Entity) Has(path string) bool { return e.raw.Get(path).Exists() }

// String returns the attribute at path as a string, or "".
func (e *Entity) String(path string) string { return e.raw.Get(path).String() }

// Int returns the attribute at path as an integer, or 0.
func (e *Entity) Int(path string) int64 { return e.raw.Get(path).Int() }

// Bool returns the attribute at path as a boolean, or false.
func (e *Entity) Bool(path string) bool { return e.raw.Get(path).Bool() }

// Time parses the RFC 3339 attribute at path. Missing or malformed
// values yield the zero time.
func (e *Entity) Time(path string) time.Time {
	value := e.raw.Get(path)
	if !value.Exists() {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value.String())
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

// Link returns the link for rel.
func (e *Entity) Link(rel string) (Link, bool) {
	value, ok := e.raw.Get("_links").Map()[rel]
	if !ok {
		return Link{}, false
	}
	if value.IsArray() {
		array := value.Array()
		if len(array) == 0 {
			return Link{}, false
		}
		value = array[0]
	}
	link := Link{
		Href:      value.Get("href").String(),
		Method:    strings.ToUpper(value.Get("method").String()),
		Templated: value.Get("templated").Bool(),
	}
	if link.Href == "" {
		return Link{}, false
	}
	if link.Method == "" {
		link.Method = http.MethodGet
	}
	return link, true
}

// Can reports whether the entity offers rel.
func (e *Entity) Can(rel string) bool {
	_, ok := e.Link(rel)
	return ok
}

// Href returns the absolute URL of rel with params expanded, or "" when
// rel is not offered.
func (e *Entity) Href(rel string, params map[string]string) string {
	link, ok := e.Link(rel)
	if !ok {
		return ""
	}
	return e.resolve(link, params)
}

// Embedded returns the entities embedded under name. A single embedded
// object is returned as a one-element slice.
func (e *Entity) Embedded(name string) []*Entity {
	value, ok := e.raw.Get("_embedded").Map()[name]
	if !ok {
		return nil
	}
	if value.IsObject() {
		return []*Entity{e.child(value)}
	}
	var entities []*Entity
	for _, item := range value.Array() {
		if item.IsObject() {
			entities = append(entities, e.child(item))
		}
	}
	return entities
}

// EmbeddedOne returns the first entity embedded under name, or nil.
func (e *Entity) EmbeddedOne(name string) *Entity {
	entities := e.Embedded(name)
	if len(entities) == 0 {
		return nil
	}
	return entities[0]
}

// Follow requests rel using the link's method with no body.
func (e *Entity) Follow(ctx context.Context, rel string, params map[string]string) (*Entity, error) {
	return e.Run(ctx, rel, params, nil)
}

// Run requests rel using the link's method, sending body as JSON when
// non-nil.
func (e *Entity) Run(ctx context.Context, rel string, params map[string]string, body any) (*Entity, error) {
	link, ok := e.Link(rel)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoLink, rel)
	}
	return e.client.Do(ctx, link.Method, e.resolve(link, params), body)
}

// Reload fetches a fresh representation of the entity through its
// "self" link, or its original URL when it has none.
func (e *Entity) Reload(ctx context.Context) (*Entity, error) {
	if e.Can("self") {
		return e.client.Get(ctx, e.Href("self", nil))
	}
	return e.client.Get(ctx, e.url)
}

func (e *Entity) child(raw gjson.Result) *Entity {
	child := &Entity{client: e.client, url: e.url, raw: raw}
	if self, ok := child.Link("self"); ok {
		child.url = e.resolve(self, nil)
	}
	return child
}

func (e *Entity) resolve(link Link, params map[string]string) string {
	href := link.Href
	if link.Templated {
		href = Expand(href, params)
	}
	base, err := url.Parse(e.url)
	if err != nil {
		return href
	}
	reference, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(reference).String()
}
