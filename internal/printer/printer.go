// Package printer sends receipt bytes to the connected thermal printer.
// Building the receipt bytes is the caller's job.
package printer

import (
	"context"
	"errors"
	"log"
	"sync"

	"parking-client/internal/metrics"
)

// DefaultChunkSize is the largest write most BLE printers accept
const DefaultChunkSize = 20

// MsgNotConnected is shown when printing without a connected printer
const MsgNotConnected = "No Bluetooth printer connected."

var (
	ErrNotConnected = errors.New(MsgNotConnected)
	ErrNoTransfer   = errors.New("peripheral has no writable characteristic")
)

// Peripheral identifies the printer and the characteristics used to talk to it
type Peripheral struct {
	PeripheralID string `json:"peripheralId"`
	Name         string `json:"name,omitempty"`
	ServiceID    string `json:"serviceId"`
	Transfer     string `json:"transfer"`
	Receive      string `json:"receive"`
}

// Writer performs a write without response, split into chunkSize pieces
type Writer interface {
	Write(ctx context.Context, p Peripheral, data []byte, chunkSize int) error
}

// Status is the printer section of the screen state
type Status struct {
	IsPrinterConnected bool        `json:"isPrinterConnected"`
	Service            *Peripheral `json:"bleService,omitempty"`
}

// Registry tracks the one connected printer
type Registry struct {
	writer    Writer
	chunkSize int

	mu         sync.RWMutex
	connected  bool
	peripheral Peripheral
}

func NewRegistry(w Writer, chunkSize int) *Registry {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Registry{writer: w, chunkSize: chunkSize}
}

// Connect records p as the active printer
func (r *Registry) Connect(p Peripheral) error {
	if p.PeripheralID == "" || p.Transfer == "" {
		return ErrNoTransfer
	}
	r.mu.Lock()
	r.peripheral = p
	r.connected = true
	r.mu.Unlock()
	log.Printf("[Printer] Connected to %s (service %s)", displayName(p), p.ServiceID)
	return nil
}

func (r *Registry) Disconnect() {
	r.mu.Lock()
	r.connected = false
	r.peripheral = Peripheral{}
	r.mu.Unlock()
	log.Println("[Printer] Disconnected")
}

func (r *Registry) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := Status{IsPrinterConnected: r.connected}
	if r.connected {
		p := r.peripheral
		st.Service = &p
	}
	return st
}

// Print writes data to the connected printer
func (r *Registry) Print(ctx context.Context, data []byte) error {
	r.mu.RLock()
	connected, p := r.connected, r.peripheral
	r.mu.RUnlock()

	if !connected || r.writer == nil {
		metrics.PrintJobsTotal.WithLabelValues("not_connected").Inc()
		return ErrNotConnected
	}

	if err := r.writer.Write(ctx, p, data, r.chunkSize); err != nil {
		metrics.PrintJobsTotal.WithLabelValues("failed").Inc()
		log.Printf("[Printer] Write to %s failed: %v", displayName(p), err)
		return err
	}
	metrics.PrintJobsTotal.WithLabelValues("sent").Inc()
	return nil
}

func displayName(p Peripheral) string {
	if p.Name != "" {
		return p.Name
	}
	return p.PeripheralID
}

// Chunks splits data into pieces of at most size bytes
func Chunks(data []byte, size int) [][]byte {
	if size <= 0 {
		size = DefaultChunkSize
	}
	out := make([][]byte, 0, (len(data)+size-1)/size)
	for len(data) > 0 {
		n := size
		if len(data) < n {
			n = len(data)
		}
		out = append(out, data[:n])
		data = data[n:]
	}
	return out
}
