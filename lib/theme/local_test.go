// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func templateNames(t *testing.T, theme Theme) []string {
	t.Helper()
	templates, err := theme.Templates(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(templates))
	for i, template := range templates {
		names[i] = template.FileName
	}
	return names
}

func TestLocalListsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "layout.html", "<html></html>")
	writeFile(t, dir, "product.liquid", "{{ product }}")
	writeFile(t, dir, "theme.yml", "name: demo")
	writeFile(t, dir, "sections/header.html", "<header>")
	writeFile(t, dir, "README.md", "ignored")
	writeFile(t, dir, ".state", `{"subdomain":"demo"}`)
	writeFile(t, dir, "assets/logo.png", "PNG")
	writeFile(t, dir, "assets/.hidden", "ignored")

	local := NewLocal(dir)
	want := []string{"layout.html", "product.liquid", "sections/header.html", "theme.yml"}
	if got := templateNames(t, local); !slices.Equal(got, want) {
		t.Errorf("templates = %v, want %v", got, want)
	}

	assets, err := local.Assets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 1 || assets[0].FileName != "logo.png" {
		t.Fatalf("assets = %+v, want only logo.png", assets)
	}
	if assets[0].Digest != Digest([]byte("PNG")) || assets[0].FileSize != 3 {
		t.Errorf("asset digest/size = %s/%d", assets[0].Digest, assets[0].FileSize)
	}
	data, err := assets[0].ReadAll(context.Background())
	if err != nil || string(data) != "PNG" {
		t.Errorf("ReadAll = %q, %v", data, err)
	}
}

func TestLocalMemoizesUntilReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "layout.html", "one")

	local := NewLocal(dir)
	if got := templateNames(t, local); len(got) != 1 {
		t.Fatalf("templates = %v", got)
	}

	writeFile(t, dir, "index.html", "two")
	if got := templateNames(t, local); len(got) != 1 {
		t.Errorf("listing changed before Reload: %v", got)
	}
	if err := local.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	if got := templateNames(t, local); len(got) != 2 {
		t.Errorf("listing after Reload = %v, want 2 entries", got)
	}
}

func TestLocalAddTemplateCreatesDirectories(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "fresh")
	local := NewLocal(dir)

	if err := local.AddTemplate(ctx, "sections/footer.html", "a\r\nb"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sections", "footer.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a\nb" {
		t.Errorf("content = %q, want LF endings", data)
	}
	if got := templateNames(t, local); !slices.Equal(got, []string{"sections/footer.html"}) {
		t.Errorf("templates after add = %v", got)
	}
}

func TestLocalAddTemplatePreservesCRLF(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "layout.html", "old\r\nbody\r\n")

	local := NewLocal(dir)
	if err := local.AddTemplate(ctx, "layout.html", "new\nbody\n"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "layout.html"))
	if string(data) != "new\r\nbody\r\n" {
		t.Errorf("content = %q, want CRLF endings kept", data)
	}
}

func TestLocalAssetRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	local := NewLocal(dir)

	if err := local.AddAsset(ctx, "app.css", strings.NewReader("body{}")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "assets", "app.css"))
	if err != nil || string(data) != "body{}" {
		t.Fatalf("asset file = %q, %v", data, err)
	}

	removed, err := local.RemoveAsset(ctx, "app.css")
	if err != nil || !removed {
		t.Fatalf("RemoveAsset = %v, %v", removed, err)
	}
	removed, err = local.RemoveAsset(ctx, "app.css")
	if err != nil || removed {
		t.Errorf("second RemoveAsset = %v, %v; want false, nil", removed, err)
	}
	assets, _ := local.Assets(ctx)
	if len(assets) != 0 {
		t.Errorf("assets after removal = %+v", assets)
	}
}

func TestLocalRemoveTemplate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "layout.html", "x")
	local := NewLocal(dir)
	templateNames(t, local)

	removed, err := local.RemoveTemplate(ctx, "layout.html")
	if err != nil || !removed {
		t.Fatalf("RemoveTemplate = %v, %v", removed, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "layout.html")); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
	if got := templateNames(t, local); len(got) != 0 {
		t.Errorf("templates after remove = %v", got)
	}
}

func TestLocalExists(t *testing.T) {
	dir := t.TempDir()
	local := NewLocal(dir)
	if local.Exists() {
		t.Error("empty directory reported as theme")
	}
	writeFile(t, dir, "layout.html", "x")
	if !local.Exists() {
		t.Error("directory with layout.html not reported as theme")
	}
}

func TestLocalRejectsNamesOutsideLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "layout.html", "keep")
	local := NewLocal(dir)

	for _, name := range []string{"../layout.html", "nested/logo.png", ".hidden", ""} {
		t.Run("asset "+name, func(t *testing.T) {
			var validation *ValidationError
			err := local.AddAsset(ctx, name, strings.NewReader("BINARY"))
			if !errors.As(err, &validation) {
				t.Fatalf("AddAsset(%q) = %v, want a ValidationError", name, err)
			}
			if _, err := local.RemoveAsset(ctx, name); !errors.As(err, &validation) {
				t.Fatalf("RemoveAsset(%q) = %v, want a ValidationError", name, err)
			}
		})
	}
	for _, name := range []string{"../outside.html", "assets/app.js", "deep/sections/a.html", "notes.txt"} {
		t.Run("template "+name, func(t *testing.T) {
			var validation *ValidationError
			if err := local.AddTemplate(ctx, name, "x"); !errors.As(err, &validation) {
				t.Fatalf("AddTemplate(%q) = %v, want a ValidationError", name, err)
			}
			if _, err := local.RemoveTemplate(ctx, name); !errors.As(err, &validation) {
				t.Fatalf("RemoveTemplate(%q) = %v, want a ValidationError", name, err)
			}
		})
	}

	data, err := os.ReadFile(filepath.Join(dir, "layout.html"))
	if err != nil || string(data) != "keep" {
		t.Errorf("layout.html = %q, %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "assets", "nested")); !os.IsNotExist(err) {
		t.Errorf("nested asset directory created: %v", err)
	}
}
