// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package platformtest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/shopfront/themesync/lib/theme"
)

type object = map[string]any

func link(href string) object { return object{"href": href} }

func action(href, method string) object { return object{"href": href, "method": method} }

func itemHref(base, fileName string) string {
	return base + "?" + url.Values{"file_name": {fileName}}.Encode()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/hal+json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeFieldError(w http.ResponseWriter, status int, field, message string) {
	writeJSON(w, status, object{
		"message": "validation failed",
		"errors":  []object{{"field": field, "messages": []string{message}}},
	})
}

func (p *Platform) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.requests = append(p.requests, r.Method+" "+r.URL.Path)
		p.mu.Unlock()
		p.logger.Debug("platform request", "method", r.Method, "path", r.URL.Path, "request_id", r.Header.Get("X-Request-Id"))
		next.ServeHTTP(w, r)
	})
}

func (p *Platform) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.token != "" && r.Header.Get("Authorization") != "Bearer "+p.token {
			writeJSON(w, http.StatusUnauthorized, object{"message": "invalid credentials"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (p *Platform) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			p.mu.Lock()
			var status int
			if len(p.failures) > 0 {
				status = p.failures[0]
				p.failures = p.failures[1:]
			}
			p.mu.Unlock()
			if status != 0 {
				w.WriteHeader(status)
				io.WriteString(w, "<html><body>Something went wrong</body></html>")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (p *Platform) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, object{
		"_links": object{
			"self":      link("/"),
			"shops":     link("/shops"),
			"all_shops": object{"href": "/shops{?subdomains}", "templated": true},
		},
	})
}

func (p *Platform) handleShops(w http.ResponseWriter, r *http.Request) {
	wanted := r.URL.Query().Get("subdomains")

	p.mu.Lock()
	defer p.mu.Unlock()
	items := []object{}
	for _, subdomain := range p.shopOrder {
		if wanted != "" && !containsField(wanted, subdomain) {
			continue
		}
		items = append(items, p.shopJSONLocked(p.shops[subdomain]))
	}
	writeJSON(w, http.StatusOK, object{
		"_links":    object{"self": link("/shops")},
		"_embedded": object{"items": items},
	})
}

func containsField(list, value string) bool {
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == value {
			return true
		}
	}
	return false
}

func (p *Platform) handleShop(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	shop, ok := p.shops[chi.URLParam(r, "subdomain")]
	if !ok {
		writeJSON(w, http.StatusNotFound, object{"message": "shop not found"})
		return
	}
	writeJSON(w, http.StatusOK, p.shopJSONLocked(shop))
}

func (p *Platform) shopJSONLocked(shop *Shop) object {
	base := path.Join("/shops", shop.Subdomain)
	return object{
		"subdomain": shop.Subdomain,
		"name":      shop.Subdomain,
		"_links": object{
			"self":   link(base),
			"theme":  link(base + "/themes/" + RoleProduction),
			"themes": link(base + "/themes"),
		},
	}
}

func (p *Platform) handleThemes(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	shop, ok := p.shops[chi.URLParam(r, "subdomain")]
	if !ok {
		writeJSON(w, http.StatusNotFound, object{"message": "shop not found"})
		return
	}
	base := path.Join("/shops", shop.Subdomain, "themes")
	links := object{
		"self":  link(base),
		"theme": link(base + "/" + RoleProduction),
	}
	if shop.development != nil {
		links["dev_theme"] = link(base + "/" + RoleDevelopment)
	} else {
		links["create_dev_theme"] = action(base, http.MethodPost)
	}
	writeJSON(w, http.StatusOK, object{"_links": links})
}

func (p *Platform) handleCreateDevTheme(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	shop, ok := p.shops[chi.URLParam(r, "subdomain")]
	if !ok {
		writeJSON(w, http.StatusNotFound, object{"message": "shop not found"})
		return
	}
	if shop.development != nil {
		writeFieldError(w, http.StatusUnprocessableEntity, "role", "development theme already exists")
		return
	}
	writeJSON(w, http.StatusCreated, p.themeJSONLocked(shop.createDevelopmentLocked()))
}

// themeLocked resolves the theme addressed by the request, writing a 404
// when there is none.
func (p *Platform) themeLocked(w http.ResponseWriter, r *http.Request) *Theme {
	shop, ok := p.shops[chi.URLParam(r, "subdomain")]
	if ok {
		switch chi.URLParam(r, "role") {
		case RoleProduction:
			return shop.production
		case RoleDevelopment:
			if shop.development != nil {
				return shop.development
			}
		}
	}
	writeJSON(w, http.StatusNotFound, object{"message": "theme not found"})
	return nil
}

func (p *Platform) handleTheme(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t := p.themeLocked(w, r); t != nil {
		writeJSON(w, http.StatusOK, p.themeJSONLocked(t))
	}
}

func (p *Platform) themeJSONLocked(t *Theme) object {
	base := t.Path()
	links := object{
		"self":               link(base),
		"create_template":    action(base+"/templates", http.MethodPut),
		"create_theme_asset": action(base+"/assets", http.MethodPut),
		"theme_preview":      link("https://" + t.shop.Subdomain + ".shop.example/?preview_theme=" + t.Role),
	}
	if t.Role == RoleDevelopment {
		links["publish_theme"] = action(base+"/publish", http.MethodPost)
	}

	templates := []object{}
	for _, name := range sortedKeys(t.templates) {
		templates = append(templates, p.templateJSONLocked(t, t.templates[name]))
	}
	assets := []object{}
	for _, name := range sortedKeys(t.assets) {
		assets = append(assets, p.assetJSONLocked(t, name, t.assets[name]))
	}

	return object{
		"role":      t.Role,
		"name":      t.shop.Subdomain + " " + t.Role,
		"_links":    links,
		"_embedded": object{"templates": templates, "assets": assets},
	}
}

func (p *Platform) templateJSONLocked(t *Theme, template theme.Template) object {
	href := itemHref(t.Path()+"/templates", template.FileName)
	links := object{"self": link(href)}
	if !p.undeletable[template.FileName] {
		links["delete_template"] = action(href, http.MethodDelete)
	}
	return object{
		"file_name":  template.FileName,
		"body":       template.Body,
		"updated_on": template.UpdatedOn.Format(time.RFC3339Nano),
		"_links":     links,
	}
}

func (p *Platform) assetJSONLocked(t *Theme, fileName string, asset storedAsset) object {
	href := itemHref(t.Path()+"/assets", fileName)
	links := object{
		"file": link(itemHref(path.Join("/files", t.shop.Subdomain, t.Role), fileName)),
	}
	if !p.undeletable[fileName] {
		links["delete_theme_asset"] = action(href, http.MethodDelete)
	}
	return object{
		"file_name":  fileName,
		"updated_on": asset.updatedOn.Format(time.RFC3339Nano),
		"digest":     theme.Digest(asset.data),
		"file_size":  len(asset.data),
		"_links":     links,
	}
}

func (p *Platform) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.themeLocked(w, r)
	if t == nil {
		return
	}
	template, ok := t.templates[r.URL.Query().Get("file_name")]
	if !ok {
		writeJSON(w, http.StatusNotFound, object{"message": "template not found"})
		return
	}
	writeJSON(w, http.StatusOK, p.templateJSONLocked(t, template))
}

func (p *Platform) handlePutTemplate(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName      string `json:"file_name"`
		Body          string `json:"body"`
		LastUpdatedOn string `json:"last_updated_on"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeFieldError(w, http.StatusBadRequest, "body", "is not valid JSON")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.themeLocked(w, r)
	if t == nil {
		return
	}
	if request.FileName == "" {
		writeFieldError(w, http.StatusUnprocessableEntity, "file_name", "can't be blank")
		return
	}
	if p.rejectedTemplates[request.FileName] {
		writeFieldError(w, http.StatusUnprocessableEntity, "file_name", "is not allowed")
		return
	}
	if existing, ok := t.templates[request.FileName]; ok && request.LastUpdatedOn != "" {
		token, err := time.Parse(time.RFC3339Nano, request.LastUpdatedOn)
		if err != nil || !token.Equal(existing.UpdatedOn) {
			writeFieldError(w, http.StatusConflict, "last_updated_on", "is stale")
			return
		}
	}

	t.putTemplateLocked(request.FileName, request.Body)
	writeJSON(w, http.StatusOK, p.templateJSONLocked(t, t.templates[request.FileName]))
}

func (p *Platform) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.themeLocked(w, r)
	if t == nil {
		return
	}
	fileName := r.URL.Query().Get("file_name")
	if p.undeletable[fileName] {
		writeFieldError(w, http.StatusUnprocessableEntity, "file_name", "can't be deleted")
		return
	}
	if _, ok := t.templates[fileName]; !ok {
		writeJSON(w, http.StatusNotFound, object{"message": "template not found"})
		return
	}
	delete(t.templates, fileName)
	w.WriteHeader(http.StatusNoContent)
}

func (p *Platform) handlePutAsset(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"file_name"`
		Data     string `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeFieldError(w, http.StatusBadRequest, "body", "is not valid JSON")
		return
	}
	data, err := base64.StdEncoding.DecodeString(request.Data)
	if err != nil {
		writeFieldError(w, http.StatusUnprocessableEntity, "data", "is not valid base64")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.themeLocked(w, r)
	if t == nil {
		return
	}
	if request.FileName == "" {
		writeFieldError(w, http.StatusUnprocessableEntity, "file_name", "can't be blank")
		return
	}
	if p.rejectedExtensions[strings.ToLower(path.Ext(request.FileName))] {
		writeFieldError(w, http.StatusUnprocessableEntity, "data", "content type is not supported")
		return
	}

	t.putAssetLocked(request.FileName, data)
	writeJSON(w, http.StatusOK, p.assetJSONLocked(t, request.FileName, t.assets[request.FileName]))
}

func (p *Platform) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.themeLocked(w, r)
	if t == nil {
		return
	}
	fileName := r.URL.Query().Get("file_name")
	if p.undeletable[fileName] {
		writeFieldError(w, http.StatusUnprocessableEntity, "file_name", "can't be deleted")
		return
	}
	if _, ok := t.assets[fileName]; !ok {
		writeJSON(w, http.StatusNotFound, object{"message": "asset not found"})
		return
	}
	delete(t.assets, fileName)
	w.WriteHeader(http.StatusNoContent)
}

func (p *Platform) handlePublish(w http.ResponseWriter, r *http.Request) {
	var request struct {
		DeleteDevTheme bool `json:"delete_dev_theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		writeFieldError(w, http.StatusBadRequest, "body", "is not valid JSON")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.themeLocked(w, r)
	if t == nil {
		return
	}
	if t.Role != RoleDevelopment {
		writeFieldError(w, http.StatusUnprocessableEntity, "role", "only development themes can be published")
		return
	}

	shop := t.shop
	previous := shop.production
	shop.production = t.cloneLocked(RoleProduction)
	if request.DeleteDevTheme {
		shop.development = nil
	} else {
		shop.development = previous.cloneLocked(RoleDevelopment)
	}
	writeJSON(w, http.StatusOK, p.themeJSONLocked(shop.production))
}

func (p *Platform) handleFile(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	t := p.themeLocked(w, r)
	if t == nil {
		p.mu.Unlock()
		return
	}
	asset, ok := t.assets[r.URL.Query().Get("file_name")]
	encoding := p.fileEncoding
	p.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := asset.data
	if encoding != "" && strings.Contains(r.Header.Get("Accept-Encoding"), encoding) {
		encoded, err := encode(encoding, data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Encoding", encoding)
		data = encoded
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}

func encode(encoding string, data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	switch encoding {
	case "zstd":
		encoder, err := zstd.NewWriter(&buffer)
		if err != nil {
			return nil, err
		}
		if _, err := encoder.Write(data); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
	case "gzip":
		encoder := gzip.NewWriter(&buffer)
		if _, err := encoder.Write(data); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
	default:
		return data, nil
	}
	return buffer.Bytes(), nil
}
