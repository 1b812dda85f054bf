// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package profiler periodically writes CPU, heap and mutex profiles of the
// running node.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	cpuProfileFile  = "cpu.profile"
	memProfileFile  = "mem.profile"
	lockProfileFile = "lock.profile"

	dirPerms  = 0o700
	filePerms = 0o600
)

var errNoMutexProfile = errors.New("mutex profile not found")

// Config of a continuous profiler. Profiling is disabled when Dir is empty.
type Config struct {
	Dir         string        `json:"dir"`
	Freq        time.Duration `json:"freq"`
	MaxNumFiles int           `json:"maxNumFiles"`
}

// Profiler captures one CPU profile per period and, at the end of each
// period, a heap and a mutex profile. Older profiles are rotated to numbered
// files, keeping at most MaxNumFiles of each kind.
type Profiler struct {
	config   Config
	cpuName  string
	memName  string
	lockName string
}

func New(config Config) *Profiler {
	return &Profiler{
		config:   config,
		cpuName:  filepath.Join(config.Dir, cpuProfileFile),
		memName:  filepath.Join(config.Dir, memProfileFile),
		lockName: filepath.Join(config.Dir, lockProfileFile),
	}
}

// Dispatch profiles until [ctx] is cancelled. The profiles of the final,
// partial period are written before returning.
func (p *Profiler) Dispatch(ctx context.Context) error {
	if err := os.MkdirAll(p.config.Dir, dirPerms); err != nil {
		return err
	}

	t := time.NewTicker(p.config.Freq)
	defer t.Stop()

	for {
		cpuFile, err := p.startCPU()
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return p.stop(cpuFile)
		case <-t.C:
			if err := p.stop(cpuFile); err != nil {
				return err
			}
		}

		if err := p.rotate(); err != nil {
			return err
		}
	}
}

func (p *Profiler) startCPU() (*os.File, error) {
	file, err := os.OpenFile(p.cpuName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, filePerms)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		return nil, errors.Join(err, file.Close())
	}
	return file, nil
}

func (p *Profiler) stop(cpuFile *os.File) error {
	pprof.StopCPUProfile()

	var g errgroup.Group
	g.Go(cpuFile.Close)
	g.Go(p.writeHeap)
	g.Go(p.writeLock)
	return g.Wait()
}

func (p *Profiler) writeHeap() error {
	file, err := os.OpenFile(p.memName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, filePerms)
	if err != nil {
		return err
	}
	defer file.Close()

	runtime.GC()
	return pprof.WriteHeapProfile(file)
}

func (p *Profiler) writeLock() error {
	profile := pprof.Lookup("mutex")
	if profile == nil {
		return errNoMutexProfile
	}

	file, err := os.OpenFile(p.lockName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, filePerms)
	if err != nil {
		return err
	}
	defer file.Close()

	return profile.WriteTo(file, 0)
}

func (p *Profiler) rotate() error {
	var g errgroup.Group
	for _, name := range []string{p.cpuName, p.memName, p.lockName} {
		g.Go(func() error {
			return rotate(name, p.config.MaxNumFiles)
		})
	}
	return g.Wait()
}

// rotate shifts name.i to name.i+1, dropping the oldest, and moves name to
// name.1.
func rotate(name string, maxNumFiles int) error {
	for i := maxNumFiles - 1; i > 0; i-- {
		src := fmt.Sprintf("%s.%d", name, i)
		dst := fmt.Sprintf("%s.%d", name, i+1)
		if err := renameIfExists(src, dst); err != nil {
			return err
		}
	}
	return renameIfExists(name, name+".1")
}

func renameIfExists(src, dst string) error {
	err := os.Rename(src, dst)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
