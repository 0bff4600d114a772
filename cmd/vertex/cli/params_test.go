// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

type sharedParams struct {
	JSONOutput
	ConfigPath string `flag:"config,c" desc:"config file"`
}

type testParams struct {
	sharedParams
	Kind     string        `flag:"kind" desc:"dropbox kind" default:"kyc"`
	Submit   bool          `flag:"submit" desc:"submit after upload"`
	Retries  int           `flag:"retries" default:"2"`
	Limit    int64         `flag:"limit" default:"1024"`
	Rate     float64       `flag:"rate" default:"2.5"`
	Timeout  time.Duration `flag:"timeout" default:"30s"`
	Docs     []string      `flag:"doc" desc:"type=path, repeatable"`
	Untagged string
}

func TestBindFlagsDefaults(t *testing.T) {
	var params testParams
	flagSet := FlagsFromParams("test", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatal(err)
	}

	if params.Kind != "kyc" {
		t.Errorf("Kind = %q, want kyc", params.Kind)
	}
	if params.Retries != 2 || params.Limit != 1024 || params.Rate != 2.5 {
		t.Errorf("numeric defaults = %d %d %g", params.Retries, params.Limit, params.Rate)
	}
	if params.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", params.Timeout)
	}
	if params.Docs != nil {
		t.Errorf("Docs = %v, want nil", params.Docs)
	}
	if flagSet.Lookup("Untagged") != nil || flagSet.Lookup("untagged") != nil {
		t.Error("untagged field should not be bound")
	}
}

func TestBindFlagsParse(t *testing.T) {
	var params testParams
	flagSet := FlagsFromParams("test", &params)
	err := flagSet.Parse([]string{
		"--json", "-c", "/etc/vertex.yaml",
		"--kind", "kyb", "--submit",
		"--doc", "business_registration=/tmp/a,b.pdf",
		"--doc", "proof_of_address=/tmp/c.pdf",
		"--timeout", "5s",
	})
	if err != nil {
		t.Fatal(err)
	}

	if !params.OutputJSON {
		t.Error("--json not bound through the embedded struct")
	}
	if params.ConfigPath != "/etc/vertex.yaml" {
		t.Errorf("ConfigPath = %q", params.ConfigPath)
	}
	if params.Kind != "kyb" || !params.Submit || params.Timeout != 5*time.Second {
		t.Errorf("params = %+v", params)
	}
	want := []string{"business_registration=/tmp/a,b.pdf", "proof_of_address=/tmp/c.pdf"}
	if !reflect.DeepEqual(params.Docs, want) {
		t.Errorf("Docs = %v, want %v", params.Docs, want)
	}
}

func TestBindFlagsErrors(t *testing.T) {
	if err := BindFlags(testParams{}, pflag.NewFlagSet("x", pflag.ContinueOnError)); err == nil {
		t.Error("BindFlags(non-pointer) should fail")
	}

	type badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	err := BindFlags(&badDefault{}, pflag.NewFlagSet("x", pflag.ContinueOnError))
	if err == nil || !strings.Contains(err.Error(), "--count") {
		t.Errorf("error = %v, want bad default for --count", err)
	}

	type unsupported struct {
		Sizes map[string]int `flag:"sizes"`
	}
	if err := BindFlags(&unsupported{}, pflag.NewFlagSet("x", pflag.ContinueOnError)); err == nil {
		t.Error("BindFlags(map field) should fail")
	}
}

func TestFlagsFromParamsPanicsOnProgrammingError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams(non-pointer) did not panic")
		}
	}()
	FlagsFromParams("bad", testParams{})
}
