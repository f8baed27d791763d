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

package generate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/sboehler/k4/lib/config"
)

const testFeed = `DateTime;Buy/Sell;Open/CloseIndicator;AssetClass;Description;Quantity;CostBasis;Proceeds;CurrencyPrimary;IBCommission;FifoPnlRealized;Notes/Codes;Symbol;UnderlyingSymbol
2023-03-01 15:30:00;BUY;O;STK;TSLA;100;1000;-1000;USD;-1;0;;TSLA;TSLA
2023-04-12 09:31:05;SELL;C;STK;TSLA;-100;-1000;1200;USD;-1;198;;TSLA;TSLA
`

const testExtra = `Symbol;Beteckning;Antal;Försäljningspris;Omkostnadsbelopp;Vinst;Förlust
ERIC-B;Ericsson B;200;15000;12000;3000;0
`

func setup(t *testing.T) (runner, string) {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	r := runner{
		configFile: write("k4.yaml", config.Default),
		extraFile:  write("extra.csv", testExtra),
		outputDir:  filepath.Join(dir, "output"),
	}
	if err := r.timestamp.Set("2024-01-15 10:30:00"); err != nil {
		t.Fatal(err)
	}
	return r, write("trades.csv", testFeed)
}

func testCmd() *cobra.Command {
	c := new(cobra.Command)
	c.SetOut(new(bytes.Buffer))
	c.SetErr(new(bytes.Buffer))
	return c
}

func TestGenerate(t *testing.T) {
	r, feed := setup(t)

	if err := r.execute(testCmd(), []string{feed}); err != nil {
		t.Fatalf("execute() returned unexpected error: %v", err)
	}

	for _, name := range []string{"trades_k4.csv", "trades_k4_grouped.csv", "INFO.SRU", "BLANKETTER.SRU"} {
		if _, err := os.Stat(filepath.Join(r.outputDir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
	blanketter, err := os.ReadFile(filepath.Join(r.outputDir, "BLANKETTER.SRU"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(blanketter)
	for _, want := range []string{
		"#BLANKETT K4-2023P4",
		"#IDENTITET 198001011234 20240115 103000",
		"#UPPGIFT 3101 Ericsson B",
		"#UPPGIFT 3111 TSLA",
		"#FIL_SLUT",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("BLANKETTER.SRU misses %q", want)
		}
	}
}

func TestGenerateNoSRU(t *testing.T) {
	r, feed := setup(t)
	r.noSRU = true

	if err := r.execute(testCmd(), []string{feed}); err != nil {
		t.Fatalf("execute() returned unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(r.outputDir, "BLANKETTER.SRU")); !os.IsNotExist(err) {
		t.Error("BLANKETTER.SRU written despite --no-sru")
	}
}

func TestGenerateInvalidExtra(t *testing.T) {
	r, feed := setup(t)
	if err := os.WriteFile(r.extraFile, []byte("Symbol;Antal\nERIC-B;1"), 0644); err != nil {
		t.Fatal(err)
	}

	err := r.execute(testCmd(), []string{feed})

	if err == nil {
		t.Fatal("execute() succeeded, want extra format error")
	}
	if _, statErr := os.Stat(r.outputDir); !os.IsNotExist(statErr) {
		t.Error("output directory created despite fatal error")
	}
}
