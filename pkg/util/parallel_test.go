// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/consensys/go-chiplets/pkg/util/assert"
)

func Test_ParExec_01(t *testing.T) {
	var (
		count   atomic.Int32
		results = make([]int, 4)
		jobs    []func() error
	)
	//
	for i := range results {
		jobs = append(jobs, func() error {
			results[i] = i * i
			count.Add(1)
			//
			return nil
		})
	}
	//
	assert.NoError(t, ParExec(jobs...))
	assert.Equal(t, int32(4), count.Load())
	assert.Equal(t, []int{0, 1, 4, 9}, results)
}

func Test_ParExec_02(t *testing.T) {
	failure := errors.New("job failed")
	err := ParExec(
		func() error { return nil },
		func() error { return failure },
	)
	//
	assert.True(t, errors.Is(err, failure))
}

func Test_ParExec_03(t *testing.T) {
	assert.NoError(t, ParExec())
}
