// Copyright 2025 Reel Archive Works, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/stretchr/testify/assert"
)

// appendCommand appends its suffix to the piped string input.
type appendCommand struct {
	cor.BaseCommand
	suffix string
	fail   bool
	ran    bool
}

func (c *appendCommand) Execute(ctx cor.Context) {
	c.ran = true
	if c.fail {
		ctx.AddError(c.GetName(), errors.New("boom"))
		return
	}
	in := ctx.Get(c.GetInputParam()).(string)
	ctx.Add(cor.CtxOut, in+c.suffix)
}

// TestChainPiping verifies the CtxOut -> CtxIn flip-flop between commands.
func TestChainPiping(t *testing.T) {
	a := &appendCommand{BaseCommand: *cor.NewBaseCommand("append-a"), suffix: "a"}
	b := &appendCommand{BaseCommand: *cor.NewBaseCommand("append-b"), suffix: "b"}

	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(a).AddCommand(b)

	ctx := cor.NewBaseContext()
	defer ctx.Close()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, "_")

	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, "_ab", ctx.Get(cor.CtxIn))
}

// TestChainStopsOnError verifies the default stop-on-failure behavior and
// that the error lands in the context under the failing command's name.
func TestChainStopsOnError(t *testing.T) {
	a := &appendCommand{BaseCommand: *cor.NewBaseCommand("append-fail"), suffix: "a", fail: true}
	b := &appendCommand{BaseCommand: *cor.NewBaseCommand("append-after"), suffix: "b"}

	chain := cor.NewBaseChain("failing-chain")
	chain.AddCommand(a).AddCommand(b)

	ctx := cor.NewBaseContext()
	defer ctx.Close()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, "_")

	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.NotNil(t, ctx.GetErrors()["append-fail"])
	assert.True(t, a.ran)
	assert.False(t, b.ran)
}
