// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package hypermedia

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("X-Request-Id") == "" {
			http.Error(w, "missing request id", http.StatusBadRequest)
			return
		}
		io.WriteString(w, `{
			"name": "root",
			"_links": {
				"self": {"href": "/"},
				"items": {"href": "/items"},
				"search": {"href": "/items{?q,limit}", "templated": true},
				"item": {"href": "/items/{id}", "templated": true},
				"create": {"href": "/items", "method": "post"},
				"broken": {"href": "/broken"},
				"rejected": {"href": "/rejected", "method": "put"}
			},
			"_embedded": {
				"featured": {"name": "one", "_links": {"self": {"href": "/items/1"}}},
				"items": [
					{"name": "one", "updated_on": "2026-03-01T10:00:00Z"},
					{"name": "two", "count": 7}
				]
			}
		}`)
	})
	router.Get("/items", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"query": r.URL.RawQuery})
	})
	router.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": chi.URLParam(r, "id")})
	})
	router.Post("/items", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"created": body["name"], "content_type": r.Header.Get("Content-Type")})
	})
	router.Get("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	})
	router.Put("/rejected", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"message": "invalid", "errors": [{"field": "body", "messages": ["is too long"]}]}`)
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func newTestRoot(t *testing.T) *Entity {
	t.Helper()
	server := newTestServer(t)
	client, err := NewClient(ClientConfig{RootURL: server.URL + "/", Token: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	root, err := client.Root(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestNewClientValidatesRoot(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("expected error for empty RootURL")
	}
	if _, err := NewClient(ClientConfig{RootURL: "/relative"}); err == nil {
		t.Error("expected error for relative RootURL")
	}
}

func TestEntityAttributesAndLinks(t *testing.T) {
	root := newTestRoot(t)

	if root.String("name") != "root" {
		t.Errorf("name = %q", root.String("name"))
	}
	if !root.Can("items") || root.Can("missing") {
		t.Error("Can reports wrong relations")
	}
	link, ok := root.Link("create")
	if !ok || link.Method != http.MethodPost {
		t.Errorf("create link = %+v, %v", link, ok)
	}
	if link, _ := root.Link("items"); link.Method != http.MethodGet {
		t.Errorf("default method = %q, want GET", link.Method)
	}

	items := root.Embedded("items")
	if len(items) != 2 {
		t.Fatalf("embedded items = %d, want 2", len(items))
	}
	want := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if !items[0].Time("updated_on").Equal(want) {
		t.Errorf("updated_on = %v, want %v", items[0].Time("updated_on"), want)
	}
	if items[1].Int("count") != 7 {
		t.Errorf("count = %d", items[1].Int("count"))
	}
	if items[1].Time("updated_on") != (time.Time{}) {
		t.Error("missing time should be zero")
	}

	featured := root.EmbeddedOne("featured")
	if featured == nil || featured.String("name") != "one" {
		t.Fatalf("featured = %v", featured)
	}
	if root.EmbeddedOne("nothing") != nil {
		t.Error("EmbeddedOne of missing name should be nil")
	}
}

func TestFollowExpandsTemplates(t *testing.T) {
	ctx := context.Background()
	root := newTestRoot(t)

	search, err := root.Follow(ctx, "search", map[string]string{"q": "logo"})
	if err != nil {
		t.Fatal(err)
	}
	if search.String("query") != "q=logo" {
		t.Errorf("query = %q, want q=logo", search.String("query"))
	}

	item, err := root.Follow(ctx, "item", map[string]string{"id": "42"})
	if err != nil {
		t.Fatal(err)
	}
	if item.String("id") != "42" {
		t.Errorf("id = %q", item.String("id"))
	}
}

func TestRunSendsBodyWithLinkMethod(t *testing.T) {
	root := newTestRoot(t)
	created, err := root.Run(context.Background(), "create", nil, map[string]string{"name": "three"})
	if err != nil {
		t.Fatal(err)
	}
	if created.String("created") != "three" {
		t.Errorf("created = %q", created.String("created"))
	}
	if created.String("content_type") != MediaType {
		t.Errorf("content type = %q", created.String("content_type"))
	}
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	root := newTestRoot(t)

	_, err := root.Follow(ctx, "missing", nil)
	if !errors.Is(err, ErrNoLink) {
		t.Errorf("missing relation error = %v, want ErrNoLink", err)
	}

	_, err = root.Follow(ctx, "broken", nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("broken error = %v, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message == "" {
		t.Errorf("broken error = %+v", apiErr)
	}

	_, err = root.Run(ctx, "rejected", nil, map[string]string{})
	if !errors.As(err, &apiErr) {
		t.Fatalf("rejected error = %v, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || !apiErr.HasField("body") {
		t.Errorf("rejected error = %+v", apiErr)
	}
	if apiErr.Fields[0].Messages[0] != "is too long" {
		t.Errorf("field messages = %v", apiErr.Fields[0].Messages)
	}
}

func TestSuccessWithFieldErrorsFails(t *testing.T) {
	client, err := NewClient(ClientConfig{RootURL: "http://example.invalid"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.parse(http.MethodPut, "http://example.invalid/x", http.StatusOK,
		[]byte(`{"errors": [{"field": "file_name", "message": "is invalid"}]}`))
	var apiErr *Error
	if !errors.As(err, &apiErr) || !apiErr.HasField("file_name") {
		t.Fatalf("err = %v, want field error on file_name", err)
	}
	if apiErr.Fields[0].Messages[0] != "is invalid" {
		t.Errorf("messages = %v", apiErr.Fields[0].Messages)
	}
}

func TestEmptySuccessBody(t *testing.T) {
	client, _ := NewClient(ClientConfig{RootURL: "http://example.invalid"})
	entity, err := client.parse(http.MethodDelete, "http://example.invalid/x", http.StatusNoContent, nil)
	if err != nil {
		t.Fatal(err)
	}
	if entity.Has("anything") {
		t.Error("empty entity has attributes")
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		template string
		params   map[string]string
		want     string
	}{
		{"/shops{?subdomains}", map[string]string{"subdomains": "acme"}, "/shops?subdomains=acme"},
		{"/shops{?subdomains}", nil, "/shops"},
		{"/shops?page=1{&q}", map[string]string{"q": "x"}, "/shops?page=1&q=x"},
		{"/shops?page=1{&subdomains}", map[string]string{"subdomains": "acme"}, "/shops?page=1&subdomains=acme"},
		{"https://x/shops{/id}{?q}", map[string]string{"id": "7", "q": "a"}, "https://x/shops/7?q=a"},
		{"/shops{?a,b}", map[string]string{"b": "2"}, "/shops?b=2"},
		{"/files/{name}", map[string]string{"name": "a b"}, "/files/a%20b"},
		{"/plain", nil, "/plain"},
		{"/unterminated{x", nil, "/unterminated{x"},
	}
	for _, test := range tests {
		if got := Expand(test.template, test.params); got != test.want {
			t.Errorf("Expand(%q) = %q, want %q", test.template, got, test.want)
		}
	}
}
