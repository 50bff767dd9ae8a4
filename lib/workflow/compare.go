// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"fmt"

	"github.com/shopfront/themesync/lib/prompt"
	"github.com/shopfront/themesync/lib/theme"
	"github.com/shopfront/themesync/lib/themediff"
)

// ReportEntry is one differing file in a CompareReport.
type ReportEntry struct {
	FileName string     `json:"file_name"`
	Kind     theme.Kind `json:"kind"`

	// Diff is the unified diff from the other side's copy, for updated
	// templates only.
	Diff string `json:"diff,omitempty"`
}

// CompareReport is the read-only result of Compare.
type CompareReport struct {
	UpdatedRemotely []ReportEntry `json:"updated_remotely"`
	UpdatedLocally  []ReportEntry `json:"updated_locally"`
	OnlyRemote      []ReportEntry `json:"only_remote"`
	OnlyLocal       []ReportEntry `json:"only_local"`
}

// Changed reports whether the two copies differ at all.
func (r *CompareReport) Changed() bool {
	return len(r.UpdatedRemotely)+len(r.UpdatedLocally)+len(r.OnlyRemote)+len(r.OnlyLocal) > 0
}

// Compare reports how local and remote differ without changing either.
// A changed file is reported as updated on the side holding the newer
// copy.
func (w *Workflows) Compare(ctx context.Context, local, remote theme.Theme) (*CompareReport, error) {
	diff := themediff.New(local, remote, false)
	views, err := diff.Views(ctx)
	if err != nil {
		return nil, err
	}
	report := &CompareReport{
		UpdatedRemotely: updatedEntries(views.UpdatedInTarget),
		UpdatedLocally:  updatedEntries(views.UpdatedInSource),
		OnlyRemote:      missingEntries(views.MissingInSource),
		OnlyLocal:       missingEntries(views.MissingInTarget),
	}

	w.prompt.Notice("Comparing local and remote copies of theme...")
	if !views.Any() {
		w.prompt.Say("No changes.", prompt.Green)
		return report, nil
	}

	w.prompt.Notice("Local <--- Remote")
	w.printEntries(report.UpdatedRemotely, "Updated in remote")
	w.printEntries(report.OnlyRemote, "Not in local dir")

	w.prompt.Notice("Local ---> Remote")
	w.printEntries(report.UpdatedLocally, "Updated locally")
	w.printEntries(report.OnlyLocal, "Not in remote")
	return report, nil
}

func (w *Workflows) printEntries(entries []ReportEntry, label string) {
	for _, entry := range entries {
		w.prompt.Say(fmt.Sprintf("%s: %s %s", label, entry.Kind, w.prompt.Highlight(entry.FileName)), prompt.Plain)
		prompt.ShowDiff(w.prompt, entry.Diff)
	}
}

func updatedEntries(updated *themediff.UpdatedTheme) []ReportEntry {
	entries := make([]ReportEntry, 0, len(updated.Templates)+len(updated.Assets))
	for _, template := range updated.Templates {
		entries = append(entries, ReportEntry{FileName: template.FileName, Kind: theme.KindTemplate, Diff: template.Diff})
	}
	for _, asset := range updated.Assets {
		entries = append(entries, ReportEntry{FileName: asset.FileName, Kind: theme.KindAsset})
	}
	return entries
}

func missingEntries(missing *themediff.MissingItems) []ReportEntry {
	entries := make([]ReportEntry, 0, len(missing.Templates)+len(missing.Assets))
	for _, template := range missing.Templates {
		entries = append(entries, ReportEntry{FileName: template.FileName, Kind: theme.KindTemplate})
	}
	for _, asset := range missing.Assets {
		entries = append(entries, ReportEntry{FileName: asset.FileName, Kind: theme.KindAsset})
	}
	return entries
}
