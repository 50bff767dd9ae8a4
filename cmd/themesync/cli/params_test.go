// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"
)

type sharedParams struct {
	Dir string `flag:"dir" desc:"theme directory" default:"."`
}

type allTypes struct {
	sharedParams
	JSONOutput
	Name     string        `flag:"name,n" desc:"a name"`
	Enabled  bool          `flag:"enabled" default:"true"`
	Count    int           `flag:"count" default:"3"`
	Timeout  time.Duration `flag:"timeout" default:"5s"`
	Tags     []string      `flag:"tag" default:"a,b"`
	Untagged string
}

func TestBindFlagsDefaults(t *testing.T) {
	var params allTypes
	flagSet := FlagsFromParams("test", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatal(err)
	}

	if params.Dir != "." || !params.Enabled || params.Count != 3 || params.Timeout != 5*time.Second {
		t.Errorf("defaults not applied: %+v", params)
	}
	if strings.Join(params.Tags, ",") != "a,b" {
		t.Errorf("Tags = %v", params.Tags)
	}
	if flagSet.Lookup("json") == nil {
		t.Error("embedded JSONOutput did not bind --json")
	}
}

func TestBindFlagsParses(t *testing.T) {
	var params allTypes
	flagSet := FlagsFromParams("test", &params)
	err := flagSet.Parse([]string{"-n", "x", "--enabled=false", "--count", "7", "--timeout", "1m", "--tag", "c", "--json", "--dir", "/tmp/theme"})
	if err != nil {
		t.Fatal(err)
	}
	if params.Name != "x" || params.Enabled || params.Count != 7 || params.Timeout != time.Minute {
		t.Errorf("params = %+v", params)
	}
	if !params.OutputJSON || params.Dir != "/tmp/theme" {
		t.Errorf("embedded fields not bound: %+v", params)
	}
}

func TestBindFlagsRejectsInvalid(t *testing.T) {
	if err := BindFlags(allTypes{}, nil); err == nil {
		t.Error("expected an error for a non-pointer")
	}

	var unsupported struct {
		Ratio float32 `flag:"ratio"`
	}
	if err := BindFlags(&unsupported, FlagsFromParams("x", &struct{}{})); err == nil {
		t.Error("expected an error for an unsupported type")
	}

	var badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	if err := BindFlags(&badDefault, FlagsFromParams("x", &struct{}{})); err == nil {
		t.Error("expected an error for an unparsable default")
	}
}
