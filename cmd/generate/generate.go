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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"

	"github.com/sboehler/k4/cmd/flags"
	"github.com/sboehler/k4/lib/config"
	"github.com/sboehler/k4/lib/ledger"
	"github.com/sboehler/k4/lib/report"
	"github.com/sboehler/k4/lib/sru"
	"github.com/sboehler/k4/lib/trades"
)

// CreateCmd creates the command.
func CreateCmd() *cobra.Command {

	var r runner

	c := &cobra.Command{
		Use:   "generate <feed.csv>",
		Short: "generate a K4 declaration",
		Long: `Match the executions of a broker feed into realized gains and losses and
render the declaration artifacts: a detailed CSV, a grouped CSV and the SRU
submission files.`,
		Args: cobra.ExactValidArgs(1),
		Run:  r.run,
	}
	r.setupFlags(c)
	return c
}

type runner struct {
	configFile string
	extraFile  string
	outputDir  string
	noSRU      bool
	color      bool
	year       flags.YearFlag
	timestamp  flags.TimeFlag
}

func (r *runner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd, args); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%+v\n", err)
		os.Exit(1)
	}
}

func (r *runner) setupFlags(c *cobra.Command) {
	c.Flags().StringVarP(&r.configFile, "config", "c", "k4.yaml", "configuration file")
	c.Flags().StringVar(&r.extraFile, "extra", "", "CSV file with records from outside the feed")
	c.Flags().StringVarP(&r.outputDir, "output", "o", "output", "output directory")
	c.Flags().BoolVar(&r.noSRU, "no-sru", false, "skip the SRU submission files")
	c.Flags().BoolVar(&r.color, "color", true, "print output in color")
	c.Flags().Var(&r.year, "year", "override the income year of the configuration")
	c.Flags().Var(&r.timestamp, "timestamp", "timestamp for the submission files, defaults to now")
}

func (r *runner) execute(cmd *cobra.Command, args []string) error {
	cfg, warnings, err := config.Load(r.configFile)
	if err != nil {
		return err
	}
	extra, err := r.readExtra()
	if err != nil {
		return err
	}
	feed, err := readFeed(args[0])
	if err != nil {
		return err
	}
	warnings = append(warnings, feed.Warnings...)

	led := ledger.New(cfg.FXRates())
	bar := pb.New(len(feed.Executions))
	bar.SetWriter(cmd.ErrOrStderr())
	bar.Start()
	led.Tick = func() { bar.Increment() }
	res, err := led.Process(feed.Executions)
	bar.Finish()
	if err != nil {
		return err
	}
	warnings = append(warnings, res.Warnings...)

	detailed := append(append([]*report.Record{}, res.Records...), extra...)
	report.Sort(detailed)
	grouped := append(report.Group(res.Records), extra...)
	report.Sort(grouped)

	files, err := r.render(args[0], cfg, detailed, grouped)
	if err != nil {
		return err
	}
	if err := r.write(files); err != nil {
		return err
	}
	r.printWarnings(cmd, warnings)
	year := r.year.ValueOr(cfg.Personal.Year)
	if err := report.Summary(cmd.OutOrStdout(), fmt.Sprintf("K4 %d detailed", year), detailed, r.color); err != nil {
		return err
	}
	return report.Summary(cmd.OutOrStdout(), fmt.Sprintf("K4 %d grouped", year), grouped, r.color)
}

func (r *runner) readExtra() ([]*report.Record, error) {
	if r.extraFile == "" {
		return nil, nil
	}
	f, err := os.Open(r.extraFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return report.ReadExtra(f)
}

func readFeed(path string) (*trades.Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return trades.Read(f)
}

// render produces all artifacts in memory, so that an error in any of them
// leaves no file behind.
func (r *runner) render(input string, cfg *config.Config, detailed, grouped []*report.Record) (map[string][]byte, error) {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	files := make(map[string][]byte)
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, detailed, false); err != nil {
		return nil, err
	}
	files[stem+"_k4.csv"] = append([]byte{}, buf.Bytes()...)
	buf.Reset()
	if err := report.WriteCSV(&buf, grouped, true); err != nil {
		return nil, err
	}
	files[stem+"_k4_grouped.csv"] = append([]byte{}, buf.Bytes()...)
	if r.noSRU {
		return files, nil
	}
	submitter := cfg.Submitter()
	submitter.Year = r.year.ValueOr(submitter.Year)
	stamp := r.timestamp.ValueOr(time.Now())
	var err error
	// Skatteverket expects the SRU files in ISO 8859-1.
	if files["INFO.SRU"], err = charmap.ISO8859_1.NewEncoder().Bytes(sru.Info(submitter)); err != nil {
		return nil, err
	}
	if files["BLANKETTER.SRU"], err = charmap.ISO8859_1.NewEncoder().Bytes(sru.Blanketter(grouped, submitter, stamp)); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *runner) write(files map[string][]byte) error {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return err
	}
	var g errgroup.Group
	for name, content := range files {
		name, content := name, content
		g.Go(func() error {
			return atomic.WriteFile(filepath.Join(r.outputDir, name), bytes.NewReader(content))
		})
	}
	return g.Wait()
}

func (r *runner) printWarnings(cmd *cobra.Command, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	color.NoColor = !r.color
	yellow := color.New(color.FgYellow)
	for _, w := range warnings {
		yellow.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}
