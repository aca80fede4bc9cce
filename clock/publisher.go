package clock

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DefaultPublishInterval is how often a master clock refreshes its region.
const DefaultPublishInterval = 5 * time.Millisecond

// Publisher owns the write side of a shared clock region: it creates the
// region, publishes the local monotonic time at a fixed interval, and
// removes the region on close. Readers map the region read-only and never
// write back.
type Publisher struct {
	data []byte
	fd   int
	path string
	src  Source
}

// NewPublisher creates the named region under dir (DefaultDir when dir is
// empty), sizes it to one float64 and maps it read-write.
func NewPublisher(dir, name string) (*Publisher, error) {
	if dir == "" {
		dir = DefaultDir
	}
	path := filepath.Join(dir, name)

	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("clock: create %s: %w", path, err)
	}
	if err := unix.Ftruncate(fd, regionSize); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("clock: truncate %s: %w", path, err)
	}
	data, err := unix.Mmap(fd, 0, regionSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("clock: map %s: %w", path, err)
	}
	return &Publisher{data: data, fd: fd, path: path, src: NewSystem()}, nil
}

// Publish stores the current source time with a single 8-byte atomic
// store, so concurrent readers never observe a torn float64.
func (p *Publisher) Publish() {
	bits := math.Float64bits(p.src.Now())
	atomic.StoreUint64((*uint64)(unsafe.Pointer(&p.data[0])), bits)
}

// Run publishes at the given interval until ctx is done. A non-positive
// interval selects DefaultPublishInterval.
func (p *Publisher) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPublishInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		p.Publish()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close unmaps the region and unlinks it from the namespace.
func (p *Publisher) Close() error {
	err := unix.Munmap(p.data)
	if cerr := unix.Close(p.fd); err == nil {
		err = cerr
	}
	if rerr := os.Remove(p.path); err == nil && rerr != nil && !os.IsNotExist(rerr) {
		err = rerr
	}
	p.data = nil
	return err
}
