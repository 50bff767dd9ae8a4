// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/tidwall/jsonc"
)

// StateFile is the name of the per-directory file recording which shop a
// theme directory belongs to.
const StateFile = ".state"

// State is the content of a theme directory's state file.
type State struct {
	Subdomain string `json:"subdomain"`
}

// ReadState returns the theme directory's recorded state. A missing
// state file yields the zero State. Comments and trailing commas are
// tolerated so hand-edited files keep working.
func (l *Local) ReadState() (State, error) {
	data, err := l.readFile(StateFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("reading %s: %w", StateFile, err)
	}

	var state State
	if strings.TrimSpace(string(data)) == "" {
		return state, nil
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &state); err != nil {
		return State{}, fmt.Errorf("parsing %s: %w", StateFile, err)
	}
	return state, nil
}

// Subdomain returns the shop subdomain recorded for the directory, or ""
// when none is recorded.
func (l *Local) Subdomain() (string, error) {
	state, err := l.ReadState()
	if err != nil {
		return "", err
	}
	return state.Subdomain, nil
}

// WriteSubdomain records the shop subdomain for the directory.
func (l *Local) WriteSubdomain(subdomain string) error {
	data, err := json.MarshalIndent(State{Subdomain: subdomain}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", StateFile, err)
	}
	data = append(data, '\n')
	if err := l.writeFile(StateFile, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("writing %s: %w", StateFile, err)
	}
	return nil
}
