// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gervill-mirror/pkg/operation"
	"github.com/walteh/gervill-mirror/pkg/status"
)

func TestDiffOperation_Execute(t *testing.T) {
	env := createTestEnv(t)

	_, err := env.original.WriteFile(env.ctx, "a/Same.java", []byte("class Same {}\n"))
	require.NoError(t, err)
	_, err = env.renamed.WriteFile(env.ctx, "a/Same.java", []byte("class Same {}\n"))
	require.NoError(t, err)

	_, err = env.original.WriteFile(env.ctx, "b/Changed.java", []byte("class C {\n  String p = \"javax/sound\";\n}\n"))
	require.NoError(t, err)
	_, err = env.renamed.WriteFile(env.ctx, "b/Changed.java", []byte("class C {\n  String p = \"gervill/javax/sound\";\n  int extra;\n}\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	op := operation.NewDiffOperation(env.original, env.renamed, &out)
	assert.Equal(t, "diff", op.Name())
	require.NoError(t, op.Execute(env.ctx))

	report := op.Report()
	require.NotNil(t, report)
	assert.Equal(t, []operation.FileDiff{
		{Path: "a/Same.java"},
		{Path: "b/Changed.java", Added: 2, Deleted: 1},
	}, report.Files)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 1, report.Deleted)
	assert.Len(t, report.Changed(), 1)

	assert.Contains(t, out.String(), "b/Changed.java")
	assert.NotContains(t, out.String(), "a/Same.java")
}

func TestDiffOperation_MissingCounterpart(t *testing.T) {
	env := createTestEnv(t)

	_, err := env.original.WriteFile(env.ctx, "Only.java", []byte("class Only {}\n"))
	require.NoError(t, err)
	_, err = env.renamed.WriteFile(env.ctx, "Other.java", []byte("class Other {}\n"))
	require.NoError(t, err)

	err = operation.NewDiffOperation(env.original, env.renamed, nil).Execute(env.ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrFilesystem)
}
