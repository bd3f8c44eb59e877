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

// Package cor (Chain of Responsibility) provides the workflow building
// blocks the footage pipelines are assembled from. A workflow is a Chain of
// Commands sharing one Context; each command reads its input from the
// context, does one unit of work, and writes its output back for the next
// command. The interfaces in this file keep commands, chains, and contexts
// interchangeable so pipelines can be composed and tested piecewise.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys the chain pipes primary data through.
const (
	// CtxIn is the default key a command reads its primary input from. The
	// chain populates it with the previous command's output.
	CtxIn = "__IN__"
	// CtxOut is the default key a command writes its primary output to. The
	// chain moves the value to CtxIn before the next command runs.
	CtxOut = "__OUT__"
)

// Context is the shared state of one workflow execution: a property bag for
// data, the collected errors keyed by command name, the temporary files to
// clean up, and the request-scoped Go context.
type Context interface {
	// SetContext sets the Go context.Context, carrying cancellation and the
	// active OpenTelemetry span.
	SetContext(context context.Context)

	// GetContext retrieves the Go context.Context.
	GetContext() context.Context

	// Add stores a key-value pair. It returns the Context for fluent
	// chaining.
	Add(key string, value interface{}) Context

	// AddError records a command failure. The key is the command name.
	AddError(key string, err error)

	// GetErrors returns every error collected so far.
	GetErrors() map[string]error

	// Get retrieves a value by key, nil when absent.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command has failed.
	HasErrors() bool

	// AddTempFile tracks a file for removal when the context closes.
	AddTempFile(file string)

	// GetTempFiles returns every tracked temporary file path.
	GetTempFiles() []string

	// Close removes all tracked temporary files. Defer it where the
	// workflow starts.
	Close()
}

// Executable is anything with a core execution step over a Context.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic, reusable unit of work and the building block of
// every workflow.
type Command interface {
	Executable

	// GetName returns the command name used in logs, spans, and metrics.
	GetName() string

	// GetInputParam returns the context key this command reads its primary
	// input from.
	GetInputParam() string

	// GetOutputParam returns the context key this command writes its
	// primary output to.
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	// GetTracer returns the command's OpenTelemetry tracer.
	GetTracer() trace.Tracer

	// GetMeter returns the command's OpenTelemetry meter.
	GetMeter() metric.Meter

	// GetSuccessCounter returns the counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns the counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains nest.
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps running commands
	// after one of them records an error. Default is to stop.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
