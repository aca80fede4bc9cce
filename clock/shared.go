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

// DefaultDir is the well-known namespace for shared clock regions. POSIX
// shared memory objects appear here on Linux.
const DefaultDir = "/dev/shm"

// regionSize is exactly one float64: the writer publishes a single
// monotonic timestamp.
const regionSize = 8

// pollInterval bounds how often Open re-checks for a region that the
// writer process has not created yet.
const pollInterval = time.Millisecond

// Shared reads a clock value published by another process through a named
// shared-memory region. The region is mapped read-only; the writer keeps
// exclusive write access.
type Shared struct {
	data []byte
	fd   int
}

// Open blocks until the named region exists under dir (DefaultDir when dir
// is empty), then maps it read-only for the lifetime of the source. A
// region that exists but cannot be opened or mapped is a hard failure:
// the scheduler must not start without its clock.
func Open(ctx context.Context, dir, name string) (*Shared, error) {
	if dir == "" {
		dir = DefaultDir
	}
	path := filepath.Join(dir, name)

	if err := waitForRegion(ctx, path); err != nil {
		return nil, err
	}

	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("clock: open %s: %w", path, err)
	}
	data, err := unix.Mmap(fd, 0, regionSize, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("clock: map %s: %w", path, err)
	}
	return &Shared{data: data, fd: fd}, nil
}

// Now returns the most recently published timestamp. The writer stores the
// value with a single 8-byte write, so one atomic load observes a
// consistent float64.
func (s *Shared) Now() float64 {
	bits := atomic.LoadUint64((*uint64)(unsafe.Pointer(&s.data[0])))
	return math.Float64frombits(bits)
}

// Close unmaps the region. The region itself belongs to the writer and is
// left in place.
func (s *Shared) Close() error {
	err := unix.Munmap(s.data)
	if cerr := unix.Close(s.fd); err == nil {
		err = cerr
	}
	s.data = nil
	return err
}

// waitForRegion polls until path exists. Only a missing file keeps the
// poll going; any other stat failure is surfaced immediately.
func waitForRegion(ctx context.Context, path string) error {
	for {
		_, err := os.Stat(path)
		if err == nil {
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("clock: stat %s: %w", path, err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("clock: waiting for %s: %w", path, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}
