// Copyright 2021 Silvio Böhler
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package initialize

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/sboehler/k4/lib/config"
)

func testCmd() *cobra.Command {
	c := new(cobra.Command)
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	return c
}

func TestInitialize(t *testing.T) {
	r := runner{configFile: filepath.Join(t.TempDir(), "k4.yaml")}

	if err := r.execute(testCmd(), nil); err != nil {
		t.Fatalf("execute() returned unexpected error: %v", err)
	}

	content, err := os.ReadFile(r.configFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != config.Default {
		t.Error("written configuration differs from the template")
	}
}

func TestInitializeRefusesOverwrite(t *testing.T) {
	r := runner{configFile: filepath.Join(t.TempDir(), "k4.yaml")}
	if err := os.WriteFile(r.configFile, []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	err := r.execute(testCmd(), nil)

	if err == nil {
		t.Fatal("execute() succeeded, want refusal to overwrite")
	}
	content, _ := os.ReadFile(r.configFile)
	if string(content) != "keep me" {
		t.Error("existing configuration was overwritten")
	}
}
