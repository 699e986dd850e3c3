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
package field

// RunningProduct returns the prefix products of a given sequence, such that
// the ith entry is s[0] * s[1] * ... * s[i].
func RunningProduct[F Element[F]](s []F) []F {
	var (
		acc    = One[F]()
		result = make([]F, len(s))
	)
	//
	for i, ith := range s {
		acc = acc.Mul(ith)
		result[i] = acc
	}
	//
	return result
}
