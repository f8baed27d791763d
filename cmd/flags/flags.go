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

package flags

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// TimeFlag manages a flag to determine a timestamp.
type TimeFlag time.Time

var _ pflag.Value = (*TimeFlag)(nil)

func (tf TimeFlag) String() string {
	return tf.Value().Format("2006-01-02 15:04:05")
}

// Set implements pflag.Value.
func (tf *TimeFlag) Set(v string) error {
	t, err := time.Parse("2006-01-02 15:04:05", v)
	if err != nil {
		return err
	}
	*tf = (TimeFlag)(t)
	return nil
}

// Type implements pflag.Value.
func (tf TimeFlag) Type() string {
	return "YYYY-MM-DD HH:MM:SS"
}

// Value returns the flag value.
func (tf TimeFlag) Value() time.Time {
	return time.Time(tf)
}

func (tf TimeFlag) ValueOr(t time.Time) time.Time {
	v := tf.Value()
	if v.IsZero() {
		return t
	}
	return v
}

// YearFlag manages a flag to determine an income year.
type YearFlag int

var _ pflag.Value = (*YearFlag)(nil)

func (yf YearFlag) String() string {
	return strconv.Itoa(int(yf))
}

// Set implements pflag.Value.
func (yf *YearFlag) Set(v string) error {
	y, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if y < 1991 || y > 9999 {
		return fmt.Errorf("invalid income year: %d", y)
	}
	*yf = YearFlag(y)
	return nil
}

// Type implements pflag.Value.
func (yf YearFlag) Type() string {
	return "YYYY"
}

// ValueOr returns the flag value, or the given default if the flag is unset.
func (yf YearFlag) ValueOr(y int) int {
	if yf == 0 {
		return y
	}
	return int(yf)
}
