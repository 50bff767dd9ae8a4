// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopfront/themesync/cmd/themesync/cli"
	"github.com/shopfront/themesync/lib/config"
	"github.com/shopfront/themesync/lib/platformtest"
	"github.com/shopfront/themesync/lib/testutil"
	"github.com/shopfront/themesync/lib/theme"
)

const token = "secret"

// harness is a fake platform with one shop, "acme", whose public theme
// holds a layout and a logo, plus a config file pointing at it.
type harness struct {
	platform   *platformtest.Platform
	shop       *platformtest.Shop
	configPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	platform := platformtest.New(platformtest.Options{Token: token})
	shop := platform.AddShop("acme")
	shop.Production().PutTemplate("layout.html", "<html>{{ content }}</html>")
	shop.Production().PutAsset("logo.png", []byte("png"))
	rootURL := platform.Start(t)

	configDir := t.TempDir()
	configPath := testutil.WriteFile(t, configDir, "config.yaml", fmt.Sprintf(
		"api_root: %s\naccess_token_file: %s\nconcurrency: 4\nlog_level: error\n",
		rootURL, filepath.Join(configDir, "missing-token")))
	t.Setenv(config.TokenEnv, token)

	return &harness{platform: platform, shop: shop, configPath: configPath}
}

// run executes a theme subcommand, answering questions from input, and
// returns what it printed.
func (h *harness) run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	return h.runContext(context.Background(), input, args...)
}

func (h *harness) runContext(ctx context.Context, input string, args ...string) (string, error) {
	var out bytes.Buffer
	command := Command(Streams{In: strings.NewReader(input), Out: &out})
	command.Output = &out
	args = append(args, "--config", h.configPath)
	err := command.Execute(ctx, args, slog.Default())
	return out.String(), err
}

// clone clones acme's public theme into a new directory.
func (h *harness) clone(t *testing.T, extra ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "acme")
	args := append([]string{"clone", dir, "--shop", "acme"}, extra...)
	if output, err := h.run(t, "", args...); err != nil {
		t.Fatalf("clone: %v\n%s", err, output)
	}
	return dir
}

func requireCategory(t *testing.T, err error, want cli.ErrorCategory) {
	t.Helper()
	var toolErr *cli.ToolError
	if !errors.As(cli.Classify(err), &toolErr) {
		t.Fatalf("error = %v, want a ToolError", err)
	}
	if toolErr.Category != want {
		t.Fatalf("category = %s, want %s (error: %v)", toolErr.Category, want, err)
	}
}

func TestCloneCreatesPairedDirectory(t *testing.T) {
	h := newHarness(t)
	dir := filepath.Join(t.TempDir(), "acme")

	output, err := h.run(t, "", "clone", dir, "--shop", "acme", "--yes")
	if err != nil {
		t.Fatalf("clone: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Cloning theme files into "+dir) {
		t.Errorf("output missing clone notice:\n%s", output)
	}
	if got := testutil.ReadFile(t, dir, "layout.html"); got != "<html>{{ content }}</html>" {
		t.Errorf("layout.html = %q", got)
	}
	if got := testutil.ReadFile(t, dir, "assets/logo.png"); got != "png" {
		t.Errorf("assets/logo.png = %q", got)
	}
	subdomain, err := theme.NewLocal(dir).Subdomain()
	if err != nil {
		t.Fatal(err)
	}
	if subdomain != "acme" {
		t.Errorf("paired subdomain = %q, want acme", subdomain)
	}
	if h.shop.Development() == nil {
		t.Error("clone without --public did not create a development theme")
	}
}

func TestCloneRefusesExistingTheme(t *testing.T) {
	h := newHarness(t)
	dir := h.clone(t, "--public")

	_, err := h.run(t, "", "clone", dir, "--shop", "acme", "--public")
	requireCategory(t, err, cli.CategoryValidation)
}

func TestCommandsRequireThemeDirectory(t *testing.T) {
	h := newHarness(t)
	empty := t.TempDir()

	for _, name := range []string{"pull", "push", "sync", "compare", "watch", "publish", "open", "dev"} {
		t.Run(name, func(t *testing.T) {
			_, err := h.run(t, "", name, "--dir", empty)
			requireCategory(t, err, cli.CategoryNotFound)
		})
	}
}

func TestMissingAccessToken(t *testing.T) {
	h := newHarness(t)
	t.Setenv(config.TokenEnv, "")

	_, err := h.run(t, "", "clone", filepath.Join(t.TempDir(), "acme"), "--shop", "acme")
	if !errors.Is(err, config.ErrNoAccessToken) {
		t.Fatalf("error = %v, want ErrNoAccessToken", err)
	}
	requireCategory(t, err, cli.CategoryValidation)
}

func TestUnknownShop(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "clone", filepath.Join(t.TempDir(), "x"), "--shop", "missing")
	requireCategory(t, err, cli.CategoryNotFound)
}

func TestPullAppliesRemoteChanges(t *testing.T) {
	h := newHarness(t)
	dir := h.clone(t, "--public")
	testutil.WriteFile(t, dir, "sections/extra.html", "local only")
	h.shop.Production().PutTemplate("layout.html", "<html>new</html>")

	output, err := h.run(t, "", "pull", "--dir", dir, "--public")
	if err != nil {
		t.Fatalf("pull: %v\n%s", err, output)
	}
	if got := testutil.ReadFile(t, dir, "layout.html"); got != "<html>new</html>" {
		t.Errorf("layout.html = %q after pull", got)
	}
	templates, err := theme.NewLocal(dir).Templates(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, template := range templates {
		if template.FileName == "sections/extra.html" {
			t.Error("local-only template survived pull with --delete")
		}
	}
	if !strings.Contains(output, "Done! Preview this theme at") {
		t.Errorf("output missing completion line:\n%s", output)
	}
}

func TestPullWithoutDeleteKeepsLocalFiles(t *testing.T) {
	h := newHarness(t)
	dir := h.clone(t, "--public")
	testutil.WriteFile(t, dir, "sections/extra.html", "local only")

	if output, err := h.run(t, "", "pull", "--dir", dir, "--public", "--delete=false"); err != nil {
		t.Fatalf("pull: %v\n%s", err, output)
	}
	if got := testutil.ReadFile(t, dir, "sections/extra.html"); got != "local only" {
		t.Errorf("sections/extra.html = %q", got)
	}
}

func TestPushUploadsToDevelopmentTheme(t *testing.T) {
	h := newHarness(t)
	dir := h.clone(t, "--yes")
	testutil.WriteFile(t, dir, "sections/header.html", "<header/>")

	if output, err := h.run(t, "", "push", "--dir", dir); err != nil {
		t.Fatalf("push: %v\n%s", err, output)
	}
	if body, ok := h.shop.Development().Template("sections/header.html"); !ok || body != "<header/>" {
		t.Errorf("development sections/header.html = %q, %v", body, ok)
	}
	if _, ok := h.shop.Production().Template("sections/header.html"); ok {
		t.Error("push to the development theme changed the public theme")
	}
}

func TestSyncExchangesBothWays(t *testing.T) {
	h := newHarness(t)
	dir := h.clone(t, "--public")
	testutil.WriteFile(t, dir, "sections/local.html", "from local")
	h.shop.Production().PutTemplate("sections/remote.html", "from remote")

	if output, err := h.run(t, "", "sync", "--dir", dir, "--public"); err != nil {
		t.Fatalf("sync: %v\n%s", err, output)
	}
	if got := testutil.ReadFile(t, dir, "sections/remote.html"); got != "from remote" {
		t.Errorf("local sections/remote.html = %q", got)
	}
	if body, _ := h.shop.Production().Template("sections/local.html"); body != "from local" {
		t.Errorf("remote sections/local.html = %q", body)
	}
}

func TestCompareJSONCoversBothThemes(t *testing.T) {
	h := newHarness(t)
	dir := h.clone(t, "--yes")
	testutil.WriteFile(t, dir, "sections/header.html", "<header/>")

	output, err := h.run(t, "", "compare", "--dir", dir, "--json")
	if err != nil {
		t.Fatalf("compare: %v\n%s", err, output)
	}
	var results []compareResult
	if err := json.Unmarshal([]byte(output), &results); err != nil {
		t.Fatalf("decoding %q: %v", output, err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want development and public", len(results))
	}
	for i, role := range []string{"development", "public"} {
		result := results[i]
		if result.Role != role {
			t.Errorf("results[%d].Role = %q, want %q", i, result.Role, role)
		}
		if !result.Changed || result.CompareReport == nil || len(result.OnlyLocal) != 1 || result.OnlyLocal[0].FileName != "sections/header.html" {
			t.Errorf("%s report = %+v", role, result.CompareReport)
		}
	}
	if h.platform.MutationCount() != 1 {
		// Creating the development theme during clone is the only write.
		t.Errorf("mutations = %d, want 1", h.platform.MutationCount())
	}
}

func TestPairRecordsShop(t *testing.T) {
	h := newHarness(t)
	h.platform.AddShop("other")
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "layout.html", "<html/>")

	if _, err := h.run(t, "", "pair", "--dir", dir); err == nil {
		t.Fatal("pair without --shop succeeded")
	}

	output, err := h.run(t, "", "pair", "--dir", dir, "--shop", "other")
	if err != nil {
		t.Fatalf("pair: %v\n%s", err, output)
	}
	if !strings.Contains(output, "paired with shop other") {
		t.Errorf("output = %q", output)
	}
	subdomain, _ := theme.NewLocal(dir).Subdomain()
	if subdomain != "other" {
		t.Errorf("paired subdomain = %q, want other", subdomain)
	}
}

func TestOpenShowsPreview(t *testing.T) {
	h := newHarness(t)
	dir := h.clone(t, "--public")
	var opened []string
	previous := openURL
	openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	t.Cleanup(func() { openURL = previous })

	output, err := h.run(t, "", "open", "--dir", dir, "--public")
	if err != nil {
		t.Fatalf("open: %v\n%s", err, output)
	}
	if len(opened) != 1 || !strings.Contains(opened[0], "preview_theme=production") {
		t.Errorf("opened = %q, want the public theme preview", opened)
	}
}

func TestDevCreatesDevelopmentTheme(t *testing.T) {
	h := newHarness(t)
	dir := h.clone(t, "--public")

	output, err := h.run(t, "", "dev", "--dir", dir)
	if err != nil {
		t.Fatalf("dev: %v\n%s", err, output)
	}
	if h.shop.Development() == nil {
		t.Fatal("development theme not created")
	}

	_, err = h.run(t, "", "dev", "--dir", dir)
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("second dev error = %v, want exit code 1", err)
	}
}

func TestPublishReplacesPublicTheme(t *testing.T) {
	h := newHarness(t)
	dir := h.clone(t, "--yes")
	testutil.WriteFile(t, dir, "sections/header.html", "<header/>")
	if output, err := h.run(t, "", "push", "--dir", dir); err != nil {
		t.Fatalf("push: %v\n%s", err, output)
	}

	output, err := h.run(t, "", "publish", "--dir", dir, "--yes")
	if err != nil {
		t.Fatalf("publish: %v\n%s", err, output)
	}
	if body, ok := h.shop.Production().Template("sections/header.html"); !ok || body != "<header/>" {
		t.Errorf("public sections/header.html = %q, %v", body, ok)
	}
	if h.shop.Development() != nil {
		t.Error("development theme kept although keeping was declined")
	}

	backups, err := filepath.Glob(filepath.Join(dir, backupPrefix+"*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Fatalf("backups = %v, want one", backups)
	}
	if got := testutil.ReadFile(t, backups[0], "layout.html"); got != "<html>{{ content }}</html>" {
		t.Errorf("backup layout.html = %q", got)
	}
}

func TestPublishInSyncDeclines(t *testing.T) {
	h := newHarness(t)
	dir := h.clone(t, "--yes")
	before := h.platform.MutationCount()

	output, err := h.run(t, "", "publish", "--dir", dir, "--yes")
	if err != nil {
		t.Fatalf("publish: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Nothing published.") {
		t.Errorf("output = %q", output)
	}
	if h.platform.MutationCount() != before {
		t.Error("publish of identical themes changed the platform")
	}
}

func TestWatchUploadsSavedFiles(t *testing.T) {
	h := newHarness(t)
	dir := h.clone(t, "--public")
	testutil.WriteFile(t, dir, "sections/.keep", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := h.runContext(ctx, "", "watch", "--dir", dir, "--public", "--debounce", "20ms")
		done <- err
	}()

	deadline := time.Now().Add(10 * time.Second)
	for attempt := 0; ; attempt++ {
		if _, ok := h.shop.Production().Template("sections/live.html"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("saved file never reached the remote theme")
		}
		testutil.WriteFile(t, dir, "sections/live.html", fmt.Sprintf("v%d", attempt))
		time.Sleep(100 * time.Millisecond)
	}

	cancel()
	if err := testutil.RequireReceive[error](t, done, 5*time.Second, "watch to return"); err != nil {
		t.Errorf("watch returned %v after cancellation", err)
	}
}

func TestStalledAPITimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	configPath := testutil.WriteFile(t, t.TempDir(), "config.yaml", fmt.Sprintf(
		"api_root: %s/\nrequest_timeout: 100ms\nlog_level: error\n", server.URL))
	t.Setenv(config.TokenEnv, token)

	done := make(chan error, 1)
	go func() {
		_, err := openSession(context.Background(), globalParams{ConfigPath: configPath},
			Streams{In: strings.NewReader(""), Out: io.Discard}, sessionOptions{command: "theme/pull"})
		done <- err
	}()
	if err := testutil.RequireReceive[error](t, done, 5*time.Second, "session to give up on the API"); err == nil {
		t.Fatal("session opened against an API that never answers")
	}
}
