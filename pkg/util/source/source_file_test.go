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
package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceFile_01(t *testing.T) {
	file := NewSourceFile("test.c", []byte("int x;\nint y;\n"))
	//
	assert.Equal(t, "test.c", file.Filename())
	assert.Equal(t, "int x;", file.Text(NewSpan(0, 6)))
	assert.Equal(t, "int y;", file.Text(NewSpan(7, 13)))
	// Spans beyond the end are clamped
	assert.Equal(t, "int y;\n", file.Text(NewSpan(7, 100)))
	assert.Equal(t, "", file.Text(NewSpan(100, 100)))
}

func TestSourceFile_02(t *testing.T) {
	file := NewSourceFile("test.c", []byte("a\nbb\nccc"))
	//
	checkLocation(t, file, 0, 1, 1)
	checkLocation(t, file, 1, 1, 2)
	checkLocation(t, file, 2, 2, 1)
	checkLocation(t, file, 3, 2, 2)
	checkLocation(t, file, 5, 3, 1)
	checkLocation(t, file, 7, 3, 3)
}

func TestSourceFile_03(t *testing.T) {
	file := NewSourceFile("test.c", []byte("a\nbb\nccc"))
	//
	assert.Equal(t, "test.c:2:1", file.LocationOf(2).String())
}

func TestSourceFile_04(t *testing.T) {
	file := NewSourceFile("test.c", []byte("one\ntwo\nthree"))
	// Line enclosing the start of "two"
	line := file.FindFirstEnclosingLine(NewSpan(4, 7))
	assert.Equal(t, "two", line.String())
	assert.Equal(t, 2, line.Number())
	assert.Equal(t, 4, line.Start())
	assert.Equal(t, 3, line.Length())
	// Out-of-bounds positions land on the last physical line
	line = file.FindFirstEnclosingLine(NewSpan(100, 100))
	assert.Equal(t, "three", line.String())
	assert.Equal(t, 3, line.Number())
}

func TestSourceFile_05(t *testing.T) {
	file := NewSourceFile("test.c", []byte("int x = ;\n"))
	err := file.SyntaxError(NewSpan(8, 9), "expected expression")
	//
	assert.Equal(t, "test.c:1:9: expected expression", err.Error())
	//
	line := err.FirstEnclosingLine()
	assert.Equal(t, "int x = ;", line.String())
	assert.Equal(t, NewSpan(8, 9), err.Span())
}

func TestSpan_01(t *testing.T) {
	span := NewSpan(2, 5)
	//
	assert.Equal(t, 2, span.Start())
	assert.Equal(t, 5, span.End())
	assert.Equal(t, 3, span.Length())
}

func TestSpan_02(t *testing.T) {
	span := NewSpan(2, 5)
	//
	assert.True(t, span.ContainsIndex(2))
	assert.True(t, span.ContainsIndex(4))
	assert.False(t, span.ContainsIndex(5))
	assert.False(t, span.ContainsIndex(1))
	//
	assert.True(t, span.Contains(NewSpan(2, 5)))
	assert.True(t, span.Contains(NewSpan(3, 4)))
	assert.False(t, span.Contains(NewSpan(1, 4)))
	assert.False(t, span.Contains(NewSpan(3, 6)))
}

func TestSpan_03(t *testing.T) {
	assert.Equal(t, NewSpan(1, 7), NewSpan(2, 7).Union(NewSpan(1, 3)))
	assert.Equal(t, NewSpan(2, 7), NewSpan(2, 7).Union(NewSpan(3, 4)))
}

func checkLocation(t *testing.T, file *File, index int, line int, col int) {
	t.Helper()
	//
	loc := file.LocationOf(index)
	assert.Equal(t, line, loc.Line)
	assert.Equal(t, col, loc.Column)
}
