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
package cpp2c

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

func TestRewriter_SingleReplace(t *testing.T) {
	r := newRewriter("abcdef")
	r.Replace(source.NewSpan(2, 4), "XY")
	//
	out, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, "abXYef", out)
}

func TestRewriter_GrowingReplace(t *testing.T) {
	r := newRewriter("abcdef")
	r.Replace(source.NewSpan(2, 4), "LONGER")
	//
	out, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, "abLONGERef", out)
}

func TestRewriter_OrderIndependence(t *testing.T) {
	// Buffered in ascending order, applied descending
	r := newRewriter("one two three")
	r.Replace(source.NewSpan(0, 3), "1")
	r.Replace(source.NewSpan(4, 7), "2")
	r.Replace(source.NewSpan(8, 13), "3")
	//
	out, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, "1 2 3", out)
}

func TestRewriter_Insert(t *testing.T) {
	r := newRewriter("hello world")
	r.Insert(5, ",")
	r.Insert(0, ">")
	//
	out, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, ">hello, world", out)
}

func TestRewriter_InsertBeforeReplace(t *testing.T) {
	// An insert at the same index as a replacement lands before it
	r := newRewriter("abc")
	r.Replace(source.NewSpan(0, 3), "xyz")
	r.Insert(0, "pre:")
	//
	out, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, "pre:xyz", out)
}

func TestRewriter_Overlap(t *testing.T) {
	r := newRewriter("abcdef")
	r.Replace(source.NewSpan(0, 4), "x")
	r.Replace(source.NewSpan(2, 6), "y")
	//
	_, err := r.Apply()
	require.ErrorIs(t, err, ErrOverlappingEdits)
}

func TestRewriter_AdjacentNotOverlapping(t *testing.T) {
	r := newRewriter("abcdef")
	r.Replace(source.NewSpan(0, 3), "x")
	r.Replace(source.NewSpan(3, 6), "y")
	//
	out, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, "xy", out)
}

func TestRewriter_NoEdits(t *testing.T) {
	r := newRewriter("unchanged")
	//
	out, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, "unchanged", out)
}

func newRewriter(text string) *Rewriter {
	return NewRewriter(source.NewSourceFile("test.c", []byte(text)))
}
