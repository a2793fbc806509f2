// Package sysconf holds the handful of kernel constants that the sampling
// engine needs on every tick: clock ticks per second, the page size, boot
// time and the CPU count. They are read once at startup and threaded
// explicitly from there on, rather than kept as package-level globals.
package sysconf

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/tklauser/go-sysconf"
	"github.com/tklauser/numcpus"
)

// Config is the immutable system configuration value threaded through the
// procfs readers and the collector.
type Config struct {
	ClockTicks int64
	PageSize   int64
	BootTime   int64
	NumCPU     int
}

// Load builds the Config once at startup. It never fails outright: every
// source falls back to a sane default so a container with a stripped-down
// /proc doesn't stop the monitor from starting.
func Load() Config {
	return Config{
		ClockTicks: clockTicks(),
		PageSize:   int64(os.Getpagesize()),
		BootTime:   bootTime(),
		NumCPU:     numCPU(),
	}
}

func clockTicks() int64 {
	ticks, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || ticks <= 0 {
		return 100
	}
	return ticks
}

func numCPU() int {
	n, err := numcpus.GetOnline()
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// bootTime parses the "btime" line of /proc/stat, the same field
// KernelStats::current().btime reads in the original implementation.
func bootTime() int64 {
	file, err := os.Open("/proc/stat")
	if err != nil {
		return time.Now().Unix()
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "btime") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			break
		}
		if v, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
			return v
		}
		break
	}
	return time.Now().Unix()
}

// TicksToMillis converts a number of clock ticks to milliseconds, the unit
// every duration in the sampling engine is expressed in.
func (c Config) TicksToMillis(ticks uint64) uint64 {
	if c.ClockTicks <= 0 {
		return 0
	}
	return ticks * 1000 / uint64(c.ClockTicks)
}
