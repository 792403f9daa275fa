package secure

import (
	"fmt"
	"sync"

	"github.com/awnumar/memguard"

	pqerrors "github.com/systmms/pqops/internal/errors"
	"github.com/systmms/pqops/pkg/primitives"
)

// Memory exclusively owns a contiguous hardened region of secret bytes.
// The zero value is an empty, released region.
type Memory struct {
	mu   sync.Mutex
	buf  *memguard.LockedBuffer
	prim primitives.Provider
	// released allows idempotent Release and blocks use after free
	released bool
}

// Acquire allocates a zero-filled hardened region of n bytes. Zero-sized
// and unsatisfiable requests fail with ErrAllocation.
func Acquire(prim primitives.Provider, n int) (m *Memory, err error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: zero-sized buffer requested", pqerrors.ErrAllocation)
	}
	// memguard panics instead of returning an error when the hardened
	// allocator cannot satisfy the request.
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("%w: %v", pqerrors.ErrAllocation, r)
		}
	}()
	return &Memory{buf: memguard.NewBuffer(n), prim: prim}, nil
}

// FromBytes copies data into a freshly owned region. The source slice is
// not adopted and remains the caller's to wipe.
func FromBytes(prim primitives.Provider, data []byte) (*Memory, error) {
	m, err := Acquire(prim, len(data))
	if err != nil {
		return nil, err
	}
	copy(m.buf.Bytes(), data)
	return m, nil
}

// Bytes exposes the owned region. The slice aliases the hardened
// allocation and must not outlive the Memory. A released Memory yields nil.
func (m *Memory) Bytes() []byte {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return nil
	}
	return m.buf.Bytes()
}

// Size returns the region length in bytes, 0 once released or moved out.
func (m *Memory) Size() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return 0
	}
	return m.buf.Size()
}

// Clear zeroizes the region in place. The region stays allocated and
// usable for reassignment.
func (m *Memory) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return
	}
	m.buf.Wipe()
}

// Release zeroizes then frees the region. Idempotent.
func (m *Memory) Release() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return
	}
	m.buf.Destroy()
	m.buf = nil
	m.released = true
}

// Equal reports whether both regions have identical size and content. The
// content comparison runs in constant time so the result's timing never
// reveals the first mismatching byte.
func (m *Memory) Equal(other *Memory) bool {
	if m == nil || other == nil {
		return m.Size() == 0 && other.Size() == 0
	}
	ob := other.Bytes()
	mb := m.Bytes()
	if len(mb) != len(ob) {
		return false
	}
	if m.prim == nil {
		return len(mb) == 0
	}
	return m.prim.ConstantTimeEqual(mb, ob)
}

// Move transfers ownership of the region to a fresh Memory and leaves the
// receiver empty (size 0). The bytes are not copied or zeroized; exactly
// one owner holds them throughout.
func (m *Memory) Move() *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return &Memory{prim: m.prim, released: true}
	}
	moved := &Memory{buf: m.buf, prim: m.prim}
	m.buf = nil
	m.released = true
	return moved
}

func (m *Memory) provider() primitives.Provider {
	if m == nil {
		return nil
	}
	return m.prim
}
