// Package profiler writes CPU and heap profiles for a lint run.
package profiler

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

// Config names the profile files. Empty paths disable that profile.
type Config struct {
	CPUProfile string
	MemProfile string
}

// Enabled reports whether any profile is requested.
func (c Config) Enabled() bool {
	return c.CPUProfile != "" || c.MemProfile != ""
}

// Profiler collects the profiles requested in Config until Stop.
type Profiler struct {
	fs        afero.Fs
	cpuFile   afero.File
	memFile   string
	startTime time.Time
}

// Start begins CPU profiling if requested. Profiles are written to fs.
func Start(fs afero.Fs, cfg Config) (*Profiler, error) {
	p := &Profiler{
		fs:        fs,
		memFile:   cfg.MemProfile,
		startTime: time.Now(),
	}

	if cfg.CPUProfile != "" {
		f, err := fs.Create(cfg.CPUProfile)
		if err != nil {
			return nil, fmt.Errorf("failed to create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to start CPU profile: %w", err)
		}
		p.cpuFile = f
	}

	return p, nil
}

// Stop ends CPU profiling and writes the heap profile.
func (p *Profiler) Stop() error {
	var errs []error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close CPU profile: %w", err))
		}
		p.cpuFile = nil
	}

	if p.memFile != "" {
		if err := p.writeHeap(); err != nil {
			errs = append(errs, err)
		}
		p.memFile = ""
	}

	return errors.Join(errs...)
}

func (p *Profiler) writeHeap() error {
	runtime.GC()

	f, err := p.fs.Create(p.memFile)
	if err != nil {
		return fmt.Errorf("create memory profile: %w", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write memory profile: %w", err)
	}
	return nil
}

// Duration returns the time since Start.
func (p *Profiler) Duration() time.Duration {
	return time.Since(p.startTime)
}

// Summary writes the run duration and current memory use to w.
func (p *Profiler) Summary(w io.Writer) {
	fmt.Fprintf(w, "Profiled %s: %s\n", p.Duration().Round(time.Millisecond), ReadMemStats())
}

// MemStats is the subset of runtime.MemStats worth reporting.
type MemStats struct {
	Alloc      uint64
	TotalAlloc uint64
	Sys        uint64
	NumGC      uint32
	HeapAlloc  uint64
	HeapInuse  uint64
}

// ReadMemStats samples the runtime.
func ReadMemStats() MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemStats{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		HeapAlloc:  m.HeapAlloc,
		HeapInuse:  m.HeapInuse,
	}
}

func (m MemStats) String() string {
	return fmt.Sprintf("alloc %s, heap %s, sys %s, gc %d",
		humanize.IBytes(m.Alloc),
		humanize.IBytes(m.HeapAlloc),
		humanize.IBytes(m.Sys),
		m.NumGC,
	)
}
