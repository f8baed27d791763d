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
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/sboehler/k4/lib/config"
)

// CreateCmd creates the command.
func CreateCmd() *cobra.Command {

	var r runner

	c := &cobra.Command{
		Use:   "init",
		Short: "write a configuration template",
		Long: `Write a configuration template with placeholder personal data and
example currency rates. Edit it before generating a declaration.`,
		Args: cobra.NoArgs,
		Run:  r.run,
	}
	r.setupFlags(c)
	return c
}

type runner struct {
	configFile string
}

func (r *runner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd, args); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%+v\n", err)
		os.Exit(1)
	}
}

func (r *runner) setupFlags(c *cobra.Command) {
	c.Flags().StringVarP(&r.configFile, "config", "c", "k4.yaml", "path of the configuration file to write")
}

func (r *runner) execute(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(r.configFile); err == nil {
		return fmt.Errorf("%s exists, not overwriting it", r.configFile)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := atomic.WriteFile(r.configFile, bytes.NewReader([]byte(config.Default))); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", r.configFile)
	return nil
}
