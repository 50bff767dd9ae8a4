// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package remotetheme

import (
	"context"
	"errors"
	"testing"

	"github.com/shopfront/themesync/lib/prompt"
)

func TestFindShop(t *testing.T) {
	ctx := context.Background()
	platform, _, selector := newPlatform(t)
	platform.AddShop("other")

	shop, err := selector.FindShop(ctx, "other")
	if err != nil {
		t.Fatal(err)
	}
	if shop.String("subdomain") != "other" {
		t.Errorf("subdomain = %q", shop.String("subdomain"))
	}

	first, err := selector.FindShop(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if first.String("subdomain") != "acme" {
		t.Errorf("first shop = %q, want acme", first.String("subdomain"))
	}

	if _, err := selector.FindShop(ctx, "missing"); !errors.Is(err, ErrShopNotFound) {
		t.Errorf("missing shop error = %v, want ErrShopNotFound", err)
	}
}

func TestRemoteThemeCreatesDevelopmentTheme(t *testing.T) {
	ctx := context.Background()
	_, shop, selector := newPlatform(t)
	shop.Production().PutTemplate("layout.html", "public")

	recorder := prompt.NewRecorder(false)
	selector.Prompt = recorder
	entity, err := selector.FindShop(ctx, "acme")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := selector.RemoteTheme(ctx, entity, false); !errors.Is(err, ErrNoDevTheme) {
		t.Fatalf("declined creation error = %v, want ErrNoDevTheme", err)
	}
	if shop.Development() != nil {
		t.Fatal("development theme created despite decline")
	}

	recorder.Answers = []bool{true}
	dev, err := selector.RemoteTheme(ctx, entity, false)
	if err != nil {
		t.Fatal(err)
	}
	if !dev.IsDev() {
		t.Error("created theme is not a development theme")
	}
	templates, _ := dev.Templates(ctx)
	if len(templates) != 1 || templates[0].Body != "public" {
		t.Errorf("development copy templates = %+v", templates)
	}

	// Existing development themes are reused without asking.
	asked := recorder.AskedCount()
	if _, err := selector.RemoteTheme(ctx, entity, false); err != nil {
		t.Fatal(err)
	}
	if recorder.AskedCount() != asked {
		t.Error("asked again for an existing development theme")
	}
}

func TestCreateDevTheme(t *testing.T) {
	ctx := context.Background()
	_, shop, selector := newPlatform(t)
	entity, _ := selector.FindShop(ctx, "acme")

	if has, err := selector.HasDevTheme(ctx, entity); err != nil || has {
		t.Fatalf("HasDevTheme before creation = %v, %v", has, err)
	}
	if _, err := selector.CreateDevTheme(ctx, entity); err != nil {
		t.Fatal(err)
	}
	if has, err := selector.HasDevTheme(ctx, entity); err != nil || !has {
		t.Fatalf("HasDevTheme after creation = %v, %v", has, err)
	}
	if shop.Development() == nil {
		t.Fatal("development theme not created")
	}
	if _, err := selector.CreateDevTheme(ctx, entity); err == nil {
		t.Error("creating a second development theme should fail")
	}
}
