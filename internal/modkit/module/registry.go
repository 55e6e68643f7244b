// Package module is the process wide port registry modules use to find each other
package module

import "sync"

// Porter exports a module's port set
type Porter interface {
	Ports() any
}

var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register publishes ports under name; nil ports are not recorded
func Register(name string, ports any) {
	if ports == nil {
		return
	}
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// PortsAs looks up the ports published under name as T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	out, ok2 := v.(T)
	return out, ok && ok2
}

// PortsOf reads T straight off a module without going through the registry
func PortsOf[T any](p Porter) (T, bool) {
	out, ok := p.Ports().(T)
	return out, ok
}

// Reset empties the registry; tests only
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
