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
	"golang.org/x/sync/errgroup"
)

// ParExec executes a set of independent jobs in parallel using go-routines,
// and waits for all of them to complete.  The first error arising from any job
// is returned.
func ParExec(jobs ...func() error) error {
	var group errgroup.Group
	//
	for _, job := range jobs {
		group.Go(job)
	}
	//
	return group.Wait()
}
