// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package platformtest

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront/themesync/lib/clock"
	"github.com/shopfront/themesync/lib/theme"
)

// Roles of the two themes a shop can have.
const (
	RoleProduction  = "production"
	RoleDevelopment = "development"
)

// Options configures a Platform.
type Options struct {
	// Token, when set, must be presented as a bearer credential.
	Token string

	// Clock stamps writes. Defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Platform is the fake API. All state is guarded by one mutex.
type Platform struct {
	token  string
	clock  clock.Clock
	logger *slog.Logger

	mu                 sync.Mutex
	shops              map[string]*Shop
	shopOrder          []string
	rejectedTemplates  map[string]bool
	rejectedExtensions map[string]bool
	undeletable        map[string]bool
	failures           []int
	lastStamp          time.Time
	requests           []string
	fileEncoding       string
}

// New returns an empty platform.
func New(options Options) *Platform {
	platform := &Platform{
		token:              options.Token,
		clock:              options.Clock,
		logger:             options.Logger,
		shops:              make(map[string]*Shop),
		rejectedTemplates:  make(map[string]bool),
		rejectedExtensions: make(map[string]bool),
		undeletable:        make(map[string]bool),
	}
	if platform.clock == nil {
		platform.clock = clock.Real()
	}
	if platform.logger == nil {
		platform.logger = slog.Default()
	}
	return platform
}

// Start serves the platform on a test server closed at cleanup and
// returns its root URL.
func (p *Platform) Start(t testing.TB) string {
	t.Helper()
	server := httptest.NewServer(p.Handler())
	t.Cleanup(server.Close)
	return server.URL + "/"
}

// Handler returns the HTTP API. Asset files are served like a CDN:
// their hrefs need no credentials.
func (p *Platform) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(p.recordRequest)

	router.Group(func(api chi.Router) {
		api.Use(p.authenticate, p.injectFailure)
		api.Get("/", p.handleRoot)
		api.Get("/shops", p.handleShops)
		api.Get("/shops/{subdomain}", p.handleShop)
		api.Get("/shops/{subdomain}/themes", p.handleThemes)
		api.Post("/shops/{subdomain}/themes", p.handleCreateDevTheme)
		api.Get("/shops/{subdomain}/themes/{role}", p.handleTheme)
		api.Get("/shops/{subdomain}/themes/{role}/templates", p.handleGetTemplate)
		api.Put("/shops/{subdomain}/themes/{role}/templates", p.handlePutTemplate)
		api.Delete("/shops/{subdomain}/themes/{role}/templates", p.handleDeleteTemplate)
		api.Put("/shops/{subdomain}/themes/{role}/assets", p.handlePutAsset)
		api.Delete("/shops/{subdomain}/themes/{role}/assets", p.handleDeleteAsset)
		api.Post("/shops/{subdomain}/themes/{role}/publish", p.handlePublish)
	})
	router.Get("/files/{subdomain}/{role}", p.handleFile)
	return router
}

// AddShop creates a shop with an empty production theme. Adding an
// existing subdomain returns the existing shop.
func (p *Platform) AddShop(subdomain string) *Shop {
	p.mu.Lock()
	defer p.mu.Unlock()
	if shop, ok := p.shops[subdomain]; ok {
		return shop
	}
	shop := &Shop{Subdomain: subdomain, platform: p}
	shop.production = newTheme(p, shop, RoleProduction)
	p.shops[subdomain] = shop
	p.shopOrder = append(p.shopOrder, subdomain)
	return shop
}

// RejectTemplate makes writes of the named template fail with a field
// error on file_name.
func (p *Platform) RejectTemplate(fileName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rejectedTemplates[fileName] = true
}

// RejectAssetExtension makes uploads of assets with the extension (e.g.
// ".exe") fail with a field error on data.
func (p *Platform) RejectAssetExtension(extension string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rejectedExtensions[strings.ToLower(extension)] = true
}

// Undeletable withholds the delete relation from items with the name.
func (p *Platform) Undeletable(fileName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.undeletable[fileName] = true
}

// FailNext makes the next mutating request (PUT, POST, DELETE) fail with
// status and a non-JSON body. Calls queue.
func (p *Platform) FailNext(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures = append(p.failures, status)
}

// EncodeFiles makes asset downloads use the content encoding ("zstd" or
// "gzip") when the client accepts it.
func (p *Platform) EncodeFiles(encoding string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fileEncoding = encoding
}

// Requests returns "METHOD /path" for every request served so far.
func (p *Platform) Requests() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.requests)
}

// MutationCount returns the number of PUT, POST and DELETE requests
// served so far.
func (p *Platform) MutationCount() int {
	count := 0
	for _, request := range p.Requests() {
		if !strings.HasPrefix(request, http.MethodGet) {
			count++
		}
	}
	return count
}

// stampLocked returns the clock's time, nudged forward when needed so
// every write gets a strictly later stamp than the previous one.
func (p *Platform) stampLocked() time.Time {
	stamp := p.clock.Now().UTC()
	if !stamp.After(p.lastStamp) {
		stamp = p.lastStamp.Add(time.Microsecond)
	}
	p.lastStamp = stamp
	return stamp
}

// Shop is one storefront.
type Shop struct {
	Subdomain string

	platform    *Platform
	production  *Theme
	development *Theme
}

// Production returns the shop's public theme.
func (s *Shop) Production() *Theme {
	s.platform.mu.Lock()
	defer s.platform.mu.Unlock()
	return s.production
}

// Development returns the shop's development theme, or nil.
func (s *Shop) Development() *Theme {
	s.platform.mu.Lock()
	defer s.platform.mu.Unlock()
	return s.development
}

// CreateDevelopment gives the shop a development theme copied from
// production, returning the existing one if present.
func (s *Shop) CreateDevelopment() *Theme {
	s.platform.mu.Lock()
	defer s.platform.mu.Unlock()
	return s.createDevelopmentLocked()
}

func (s *Shop) createDevelopmentLocked() *Theme {
	if s.development == nil {
		s.development = s.production.cloneLocked(RoleDevelopment)
	}
	return s.development
}

// Theme is one theme of a shop.
type Theme struct {
	Role string

	platform  *Platform
	shop      *Shop
	templates map[string]theme.Template
	assets    map[string]storedAsset
}

type storedAsset struct {
	data      []byte
	updatedOn time.Time
}

func newTheme(platform *Platform, shop *Shop, role string) *Theme {
	return &Theme{
		Role:      role,
		platform:  platform,
		shop:      shop,
		templates: make(map[string]theme.Template),
		assets:    make(map[string]storedAsset),
	}
}

func (t *Theme) cloneLocked(role string) *Theme {
	clone := newTheme(t.platform, t.shop, role)
	for name, template := range t.templates {
		clone.templates[name] = template
	}
	for name, asset := range t.assets {
		clone.assets[name] = storedAsset{data: slices.Clone(asset.data), updatedOn: asset.updatedOn}
	}
	return clone
}

// PutTemplate stores a template stamped with the platform clock and
// returns the stamp.
func (t *Theme) PutTemplate(fileName, body string) time.Time {
	t.platform.mu.Lock()
	defer t.platform.mu.Unlock()
	return t.putTemplateLocked(fileName, body)
}

func (t *Theme) putTemplateLocked(fileName, body string) time.Time {
	stamp := t.platform.stampLocked()
	t.templates[fileName] = theme.Template{FileName: fileName, Body: body, UpdatedOn: stamp}
	return stamp
}

// PutAsset stores an asset stamped with the platform clock and returns
// the stamp.
func (t *Theme) PutAsset(fileName string, data []byte) time.Time {
	t.platform.mu.Lock()
	defer t.platform.mu.Unlock()
	return t.putAssetLocked(fileName, data)
}

func (t *Theme) putAssetLocked(fileName string, data []byte) time.Time {
	stamp := t.platform.stampLocked()
	t.assets[fileName] = storedAsset{data: slices.Clone(data), updatedOn: stamp}
	return stamp
}

// Template returns a template body.
func (t *Theme) Template(fileName string) (string, bool) {
	t.platform.mu.Lock()
	defer t.platform.mu.Unlock()
	template, ok := t.templates[fileName]
	return template.Body, ok
}

// Asset returns an asset's content.
func (t *Theme) Asset(fileName string) ([]byte, bool) {
	t.platform.mu.Lock()
	defer t.platform.mu.Unlock()
	asset, ok := t.assets[fileName]
	return slices.Clone(asset.data), ok
}

// TemplateNames returns the sorted template names.
func (t *Theme) TemplateNames() []string {
	t.platform.mu.Lock()
	defer t.platform.mu.Unlock()
	return sortedKeys(t.templates)
}

// AssetNames returns the sorted asset names.
func (t *Theme) AssetNames() []string {
	t.platform.mu.Lock()
	defer t.platform.mu.Unlock()
	return sortedKeys(t.assets)
}

// Path returns the theme's API path.
func (t *Theme) Path() string {
	return path.Join("/shops", t.shop.Subdomain, "themes", t.Role)
}

func sortedKeys[V any](items map[string]V) []string {
	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
