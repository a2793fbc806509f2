package procfs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/oprsmon/oprs/pkg/sysconf"
)

// SystemStat is a point-in-time reading of the whole machine's CPU and
// memory usage, used both as the denominator for ratio aggregations and as
// the "system" row the TUI and exporters can show alongside any process.
type SystemStat struct {
	TotalTimeMs       uint64
	IdleTimeMs        uint64
	MemTotalBytes     uint64
	MemFreeBytes      uint64
	MemAvailableBytes uint64
	CPUCount          int
}

// ReadSystemStat builds a SystemStat from /proc/stat's aggregate cpu line
// (converted to milliseconds via cfg.ClockTicks, so it is directly
// comparable to ProcessStat's own millisecond fields) and gopsutil's memory
// reader.
func ReadSystemStat(cfg sysconf.Config) (SystemStat, error) {
	total, idle, err := readAggregateCPUTicks()
	if err != nil {
		return SystemStat{}, fmt.Errorf("read /proc/stat: %w", err)
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return SystemStat{}, fmt.Errorf("read memory info: %w", err)
	}

	return SystemStat{
		TotalTimeMs:       cfg.TicksToMillis(total),
		IdleTimeMs:        cfg.TicksToMillis(idle),
		MemTotalBytes:     vm.Total,
		MemFreeBytes:      vm.Free,
		MemAvailableBytes: vm.Available,
		CPUCount:          cfg.NumCPU,
	}, nil
}

// ListPids returns every numeric entry of /proc, in ascending numeric
// order — the candidate set the forest's refresh pass scans each tick,
// grounded on the original's proc_dir.rs directory walk.
func ListPids() ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}
	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids, nil
}

// readAggregateCPUTicks parses the leading "cpu " line of /proc/stat: the
// sum of all ten (kernel-version dependent) jiffie counters is the total,
// and the fourth field is idle time, the same fields KernelStats reads in
// the original implementation.
func readAggregateCPUTicks() (total, idle uint64, err error) {
	file, err := os.Open("/proc/stat")
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		fields := strings.Fields(line)[1:]
		for i, f := range fields {
			v, convErr := strconv.ParseUint(f, 10, 64)
			if convErr != nil {
				continue
			}
			total += v
			if i == 3 {
				idle = v
			}
		}
		return total, idle, nil
	}
	return 0, 0, fmt.Errorf("no aggregate cpu line found")
}
