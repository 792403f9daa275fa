package engine

import (
	"errors"
	"sync"
)

// ErrAlreadyInitialized is returned when Init is called again with
// parameters that differ from the first call. Silently keeping the first
// configuration would let two callers run under different assumptions, so
// the divergence is an explicit error.
var ErrAlreadyInitialized = errors.New("engine already initialized with different parameters")

// ErrNotInitialized is returned by Instance before Init has run.
var ErrNotInitialized = errors.New("engine not initialized")

var (
	instMu     sync.Mutex
	inst       *Engine
	instParams Params
)

// Init creates the process-wide engine. Exactly one engine exists per
// process; a repeat call with identical params returns the existing one,
// and a repeat call with different params fails with
// ErrAlreadyInitialized.
func Init(params Params, deps Deps) (*Engine, error) {
	instMu.Lock()
	defer instMu.Unlock()

	if inst != nil {
		if params != instParams {
			return nil, ErrAlreadyInitialized
		}
		return inst, nil
	}

	e, err := New(params, deps)
	if err != nil {
		return nil, err
	}
	inst = e
	instParams = params
	return e, nil
}

// Instance returns the engine created by Init.
func Instance() (*Engine, error) {
	instMu.Lock()
	defer instMu.Unlock()
	if inst == nil {
		return nil, ErrNotInitialized
	}
	return inst, nil
}

// resetInstance discards the process-wide engine. Test support only.
func resetInstance() {
	instMu.Lock()
	defer instMu.Unlock()
	inst = nil
	instParams = Params{}
}
