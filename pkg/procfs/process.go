package procfs

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	gopsprocess "github.com/shirou/gopsutil/v4/process"

	"github.com/oprsmon/oprs/pkg/sysconf"
)

// FdKind classifies one open file descriptor by what its /proc/[pid]/fd
// symlink target looks like.
type FdKind int

const (
	FdKindAnon FdKind = iota
	FdKindFile
	FdKindMemFile
	FdKindNet
	FdKindPipe
	FdKindSocket
	FdKindOther
)

// MapKind classifies one line of /proc/[pid]/maps by its pathname field.
type MapKind int

const (
	MapKindAnon MapKind = iota
	MapKindHeap
	MapKindStack
	MapKindThreadStack
	MapKindVdso
	MapKindVsyscall
	MapKindVsys
	MapKindVvar
	MapKindFile
	MapKindOther
)

// MapStat is the count and total size of the mappings of one MapKind.
type MapStat struct {
	Count int
	Size  uint64
}

var fdKindNames = map[FdKind]string{
	FdKindAnon:    "anon",
	FdKindFile:    "file",
	FdKindMemFile: "memfd",
	FdKindNet:     "net",
	FdKindPipe:    "pipe",
	FdKindSocket:  "socket",
	FdKindOther:   "other",
}

func (k FdKind) String() string { return fdKindNames[k] }

var mapKindNames = map[MapKind]string{
	MapKindAnon:        "anon",
	MapKindHeap:        "heap",
	MapKindStack:       "stack",
	MapKindThreadStack: "thread-stack",
	MapKindVdso:        "vdso",
	MapKindVsyscall:    "vsyscall",
	MapKindVsys:        "vsys",
	MapKindVvar:        "vvar",
	MapKindFile:        "file",
	MapKindOther:       "other",
}

func (k MapKind) String() string { return mapKindNames[k] }

// ProcessStat is one on-demand read of everything the metric registry knows
// how to report about a single process. A Reader builds exactly one of
// these per sample tick per tracked pid.
type ProcessStat struct {
	Pid       int
	Ppid      int
	Comm      string
	Cmdline   []string
	StartTime uint64 // ticks since boot, used for pid-reuse detection

	UTimeMs   uint64
	STimeMs   uint64
	ElapsedMs uint64
	MinFlt    uint64
	MajFlt    uint64

	VmSize      uint64
	RssBytes    uint64
	TextBytes   uint64
	DataBytes   uint64
	ThreadCount int

	IoReadCall     uint64
	IoReadCount    uint64
	IoReadStorage  uint64
	IoWriteCall    uint64
	IoWriteCount   uint64
	IoWriteStorage uint64

	FdAll     int
	FdHigh    int
	FdByKind  map[FdKind]int
	MapByKind map[MapKind]MapStat
}

// Reader reads ProcessStat and SystemStat values against a fixed sysconf.
// It holds no per-pid state: every Read call is a fresh extraction pass,
// matching the original's "procfs is a snapshot, not a stream" model.
type Reader struct {
	cfg sysconf.Config
}

// NewReader builds a Reader bound to the given system configuration.
func NewReader(cfg sysconf.Config) *Reader { return &Reader{cfg: cfg} }

// ErrNoSuchProcess is returned when a pid has no /proc/[pid] entry, either
// because it never existed or because it has already exited.
var ErrNoSuchProcess = fmt.Errorf("no such process")

// ReadProcess builds a full ProcessStat for pid. Counter and gauge fields
// that come from gopsutil are read through it (process identity, CPU time,
// memory, thread count, IO counters); minflt/majflt/starttime and the
// FD/mapping breakdowns have no gopsutil equivalent and are parsed directly
// out of /proc.
func (r *Reader) ReadProcess(pid int) (ProcessStat, error) {
	if _, err := os.Stat(procPath(pid, "")); err != nil {
		return ProcessStat{}, ErrNoSuchProcess
	}

	proc, err := gopsprocess.NewProcess(int32(pid))
	if err != nil {
		return ProcessStat{}, ErrNoSuchProcess
	}

	startTicks, err := readStartTime(pid)
	if err != nil {
		return ProcessStat{}, err
	}

	stat := ProcessStat{
		Pid:       pid,
		StartTime: startTicks,
		ElapsedMs: r.elapsedMs(startTicks),
	}

	if ppid, err := proc.Ppid(); err == nil {
		stat.Ppid = int(ppid)
	}
	if name, err := proc.Name(); err == nil {
		stat.Comm = name
	}
	if cmdline, err := proc.CmdlineSlice(); err == nil {
		stat.Cmdline = cmdline
	}
	if times, err := proc.Times(); err == nil {
		stat.UTimeMs = uint64(times.User * 1000)
		stat.STimeMs = uint64(times.System * 1000)
	}
	if mi, err := proc.MemoryInfo(); err == nil && mi != nil {
		stat.RssBytes = mi.RSS
		stat.VmSize = mi.VMS
	}
	if threads, err := proc.NumThreads(); err == nil {
		stat.ThreadCount = int(threads)
	}
	if pf, err := proc.PageFaults(); err == nil && pf != nil {
		stat.MinFlt = pf.MinorFaults
		stat.MajFlt = pf.MajorFaults
	}
	if io, err := proc.IOCounters(); err == nil && io != nil {
		stat.IoReadCall = io.ReadCount
		stat.IoReadStorage = io.ReadBytes
		stat.IoReadCount = io.ReadBytes
		stat.IoWriteCall = io.WriteCount
		stat.IoWriteStorage = io.WriteBytes
		stat.IoWriteCount = io.WriteBytes
	}

	stat.TextBytes, stat.DataBytes = readMemBreakdown(pid, uint64(r.cfg.PageSize))

	fdAll, fdHigh, fdByKind := readFds(pid)
	stat.FdAll, stat.FdHigh, stat.FdByKind = fdAll, fdHigh, fdByKind

	stat.MapByKind = readMaps(pid)

	return stat, nil
}

// elapsedMs is wall-clock time since process start: boot time plus start
// ticks (converted via the clock tick rate) gives the process's start
// instant, matched against the current wall clock.
func (r *Reader) elapsedMs(startTicks uint64) uint64 {
	startSeconds := r.cfg.BootTime + int64(startTicks)/r.cfg.ClockTicks
	elapsed := time.Now().Unix() - startSeconds
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed) * 1000
}

func procPath(pid int, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("/proc/%d", pid)
	}
	return fmt.Sprintf("/proc/%d/%s", pid, suffix)
}

// readStartTime parses the process start time in clock ticks since boot
// (the 22nd whitespace-separated field of /proc/[pid]/stat) — the value
// ProcessInfo.refresh compares against its cached copy to detect pid reuse.
// Neither gopsutil nor any other reader in this package surfaces it. The
// comm field is parenthesized and may itself contain spaces, so it is
// located by its closing paren rather than by a fixed split.
func readStartTime(pid int) (uint64, error) {
	data, err := os.ReadFile(procPath(pid, "stat"))
	if err != nil {
		return 0, ErrNoSuchProcess
	}
	line := string(data)
	closeParen := strings.LastIndexByte(line, ')')
	if closeParen < 0 {
		return 0, fmt.Errorf("malformed /proc/%d/stat", pid)
	}
	fields := strings.Fields(line[closeParen+1:])
	// fields[0] is state (the 3rd /proc/stat field); starttime is the 22nd
	// field overall, i.e. fields[22-3] = fields[19].
	const starttimeIdx = 19
	if len(fields) <= starttimeIdx {
		return 0, fmt.Errorf("short /proc/%d/stat", pid)
	}
	starttime, _ := strconv.ParseUint(fields[starttimeIdx], 10, 64)
	return starttime, nil
}

// readMemBreakdown reads the resident text and data+stack sizes from
// /proc/[pid]/statm, in memory pages, and converts them to bytes.
func readMemBreakdown(pid int, pageSize uint64) (textBytes, dataBytes uint64) {
	data, err := os.ReadFile(procPath(pid, "statm"))
	if err != nil {
		return 0, 0
	}
	fields := strings.Fields(string(data))
	if len(fields) < 7 {
		return 0, 0
	}
	text, _ := strconv.ParseUint(fields[3], 10, 64)
	dataPages, _ := strconv.ParseUint(fields[5], 10, 64)
	return text * pageSize, dataPages * pageSize
}

func readFds(pid int) (all, high int, byKind map[FdKind]int) {
	byKind = make(map[FdKind]int)
	entries, err := os.ReadDir(procPath(pid, "fd"))
	if err != nil {
		return 0, 0, byKind
	}
	for _, e := range entries {
		fdNum, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		all++
		if fdNum > high {
			high = fdNum
		}
		target, err := os.Readlink(procPath(pid, "fd/"+e.Name()))
		if err != nil {
			byKind[FdKindOther]++
			continue
		}
		byKind[classifyFd(target)]++
	}
	return all, high, byKind
}

func classifyFd(target string) FdKind {
	switch {
	case strings.HasPrefix(target, "socket:"):
		return FdKindSocket
	case strings.HasPrefix(target, "pipe:"):
		return FdKindPipe
	case strings.HasPrefix(target, "anon_inode:"):
		return FdKindAnon
	case strings.HasPrefix(target, "/memfd:"):
		return FdKindMemFile
	case strings.Contains(target, "net:["):
		return FdKindNet
	case strings.HasPrefix(target, "/"):
		return FdKindFile
	default:
		return FdKindOther
	}
}

func readMaps(pid int) map[MapKind]MapStat {
	byKind := make(map[MapKind]MapStat)
	file, err := os.Open(procPath(pid, "maps"))
	if err != nil {
		return byKind
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 1 {
			continue
		}
		addrRange := strings.SplitN(fields[0], "-", 2)
		if len(addrRange) != 2 {
			continue
		}
		lo, errLo := strconv.ParseUint(addrRange[0], 16, 64)
		hi, errHi := strconv.ParseUint(addrRange[1], 16, 64)
		if errLo != nil || errHi != nil || hi < lo {
			continue
		}
		size := hi - lo

		pathname := ""
		if len(fields) >= 6 {
			pathname = strings.Join(fields[5:], " ")
		}
		kind := classifyMap(pathname)
		s := byKind[kind]
		s.Count++
		s.Size += size
		byKind[kind] = s
	}
	return byKind
}

func classifyMap(pathname string) MapKind {
	switch {
	case pathname == "":
		return MapKindAnon
	case pathname == "[heap]":
		return MapKindHeap
	case pathname == "[stack]":
		return MapKindStack
	case strings.HasPrefix(pathname, "[stack:"):
		return MapKindThreadStack
	case pathname == "[vdso]":
		return MapKindVdso
	case pathname == "[vsyscall]":
		return MapKindVsyscall
	case pathname == "[vsys]":
		return MapKindVsys
	case pathname == "[vvar]":
		return MapKindVvar
	case strings.HasPrefix(pathname, "/"):
		return MapKindFile
	default:
		return MapKindOther
	}
}
