// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation of the conversion pipeline
// without adding hard dependencies on specific observability backends.
// Consumers register hooks at startup to receive events about parsing,
// planning and output writing.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the pipeline packages
// never import a metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetOutputHooks(&myOutputHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnParseStart(ctx, observability.InputStack, path)
//	// ... parse ...
//	observability.Pipeline().OnParseComplete(ctx, observability.InputStack, path, rows, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Input kinds passed to the parse hooks.
const (
	InputStack    = "stack"
	InputPosition = "position"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the conversion pipeline.
type PipelineHooks interface {
	// Parse events. kind is InputStack or InputPosition, rows the number of
	// catalog entries or footprints read.
	OnParseStart(ctx context.Context, kind, path string)
	OnParseComplete(ctx context.Context, kind, path string, rows int, duration time.Duration, err error)

	// Plan events.
	OnPlanStart(ctx context.Context, footprints, parts int)
	OnPlanComplete(ctx context.Context, placements int, duration time.Duration, err error)

	// Encode events.
	OnEncodeStart(ctx context.Context, components int)
	OnEncodeComplete(ctx context.Context, size int, duration time.Duration, err error)
}

// =============================================================================
// Output Hooks
// =============================================================================

// OutputHooks receives events from output file operations.
type OutputHooks interface {
	// OnWrite records a completed output file.
	OnWrite(ctx context.Context, path string, size int)

	// OnWriteError records a failed write. No partial file is left behind.
	OnWriteError(ctx context.Context, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnPlanStart(context.Context, int, int)                        {}
func (NoopPipelineHooks) OnPlanComplete(context.Context, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnEncodeStart(context.Context, int)                           {}
func (NoopPipelineHooks) OnEncodeComplete(context.Context, int, time.Duration, error) {}

// NoopOutputHooks is a no-op implementation of OutputHooks.
type NoopOutputHooks struct{}

func (NoopOutputHooks) OnWrite(context.Context, string, int)        {}
func (NoopOutputHooks) OnWriteError(context.Context, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	outputHooks   OutputHooks   = NoopOutputHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any conversion.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetOutputHooks registers custom output hooks.
func SetOutputHooks(h OutputHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		outputHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Output returns the registered output hooks.
func Output() OutputHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return outputHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	outputHooks = NoopOutputHooks{}
}
