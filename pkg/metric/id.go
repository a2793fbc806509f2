// Package metric defines the closed set of measurable process values
// (MetricID), the aggregation bitset that can be requested for each of them,
// and the spec grammar ("name[-raw][+agg]*[/unit]") used to parse a user's
// -m/--metric flags into a concrete, ordered, duplicate-free metric list.
package metric

import "fmt"

// ID is a closed enumeration of every value the sampler knows how to read
// off a process or the system as a whole. Unlike an interface, an ID is a
// plain comparable value: it can be used as a map key, sorted, and switched
// on exhaustively.
type ID int

const (
	FaultMinor ID = iota
	FaultMajor
	IoReadCall
	IoReadCount
	IoReadStorage
	IoWriteCall
	IoWriteCount
	IoWriteStorage
	MemRss
	MemVm
	MemText
	MemData
	TimeElapsed
	TimeCpu
	TimeSystem
	TimeUser
	ThreadCount

	FdAll
	FdHigh
	FdAnon
	FdFile
	FdMemFile
	FdNet
	FdOther
	FdPipe
	FdSocket

	MapAnonCount
	MapHeapCount
	MapFileCount
	MapStackCount
	MapThreadStackCount
	MapVdsoCount
	MapVsysCount
	MapVsyscallCount
	MapVvarCount
	MapOtherCount

	MapAnonSize
	MapHeapSize
	MapFileSize
	MapStackSize
	MapThreadStackSize
	MapVdsoSize
	MapVsysSize
	MapVsyscallSize
	MapVvarSize
	MapOtherSize

	numIDs
)

// DataType classifies whether a metric's raw value is monotonic (a
// COUNTER in RRD terms) or a point-in-time reading (a GAUGE).
type DataType int

const (
	Counter DataType = iota
	Gauge
)

type idInfo struct {
	name      string
	short     string
	dataType  DataType
	help      string
	formatter Formatter
}

var idTable = [numIDs]idInfo{
	FaultMinor:     {"fault:minor", "flt:min", Counter, "minor page faults", identityFormatter},
	FaultMajor:     {"fault:major", "flt:maj", Counter, "major page faults", identityFormatter},
	IoReadCall:     {"io:read:call", "rd:call", Counter, "read(2)-family syscalls issued", identityFormatter},
	IoReadCount:    {"io:read:count", "rd:cnt", Counter, "bytes read from the page cache or device", sizeFormatter},
	IoReadStorage:  {"io:read:storage", "rd:store", Counter, "bytes actually fetched from storage", sizeFormatter},
	IoWriteCall:    {"io:write:call", "wr:call", Counter, "write(2)-family syscalls issued", identityFormatter},
	IoWriteCount:   {"io:write:count", "wr:cnt", Counter, "bytes sent to the page cache or device", sizeFormatter},
	IoWriteStorage: {"io:write:storage", "wr:store", Counter, "bytes actually flushed to storage", sizeFormatter},
	MemRss:         {"mem:rss", "mem:rss", Gauge, "resident set size", sizeFormatter},
	MemVm:          {"mem:vm", "mem:vm", Gauge, "total virtual memory size", sizeFormatter},
	MemText:        {"mem:text", "mem:text", Gauge, "resident text (code) size", sizeFormatter},
	MemData:        {"mem:data", "mem:data", Gauge, "resident data+stack size", sizeFormatter},
	TimeElapsed:    {"time:elapsed", "tm:elap", Counter, "wall-clock time since process start", durationFormatter},
	TimeCpu:        {"time:cpu", "tm:cpu", Counter, "total CPU time (user+system)", durationFormatter},
	TimeSystem:     {"time:system", "tm:sys", Counter, "CPU time spent in the kernel", durationFormatter},
	TimeUser:       {"time:user", "tm:usr", Counter, "CPU time spent in user space", durationFormatter},
	ThreadCount:    {"thread:count", "thrd:cnt", Gauge, "number of threads", identityFormatter},

	FdAll:    {"fd:all", "fd:all", Gauge, "open file descriptors", identityFormatter},
	FdHigh:   {"fd:high", "fd:high", Gauge, "highest open file descriptor number", identityFormatter},
	FdAnon:   {"fd:anon", "fd:anon", Gauge, "anonymous-inode descriptors", identityFormatter},
	FdFile:   {"fd:file", "fd:file", Gauge, "regular file descriptors", identityFormatter},
	FdMemFile: {"fd:memfile", "fd:mem", Gauge, "memfd/tmpfs descriptors", identityFormatter},
	FdNet:    {"fd:net", "fd:net", Gauge, "network descriptors", identityFormatter},
	FdOther:  {"fd:other", "fd:othr", Gauge, "descriptors of an unrecognized kind", identityFormatter},
	FdPipe:   {"fd:pipe", "fd:pipe", Gauge, "pipe descriptors", identityFormatter},
	FdSocket: {"fd:socket", "fd:sock", Gauge, "socket descriptors", identityFormatter},

	MapAnonCount:        {"map:anon:count", "anon:cnt", Gauge, "anonymous memory mappings", identityFormatter},
	MapHeapCount:        {"map:heap:count", "heap:cnt", Gauge, "heap mappings", identityFormatter},
	MapFileCount:        {"map:file:count", "file:cnt", Gauge, "file-backed mappings", identityFormatter},
	MapStackCount:       {"map:stack:count", "stk:cnt", Gauge, "main stack mappings", identityFormatter},
	MapThreadStackCount: {"map:tstack:count", "tstk:cnt", Gauge, "thread stack mappings", identityFormatter},
	MapVdsoCount:        {"map:vdso:count", "vdso:cnt", Gauge, "vdso mappings", identityFormatter},
	MapVsysCount:        {"map:vsys:count", "vsys:cnt", Gauge, "vsyscall mappings", identityFormatter},
	MapVsyscallCount:    {"map:vsyscall:count", "vscl:cnt", Gauge, "vsyscall-table mappings", identityFormatter},
	MapVvarCount:        {"map:vvar:count", "vvar:cnt", Gauge, "vvar mappings", identityFormatter},
	MapOtherCount:       {"map:other:count", "othr:cnt", Gauge, "mappings of an unrecognized kind", identityFormatter},

	MapAnonSize:        {"map:anon:size", "anon:sz", Gauge, "anonymous memory mapped", sizeFormatter},
	MapHeapSize:        {"map:heap:size", "heap:sz", Gauge, "heap memory mapped", sizeFormatter},
	MapFileSize:        {"map:file:size", "file:sz", Gauge, "file-backed memory mapped", sizeFormatter},
	MapStackSize:       {"map:stack:size", "stk:sz", Gauge, "main stack memory mapped", sizeFormatter},
	MapThreadStackSize: {"map:tstack:size", "tstk:sz", Gauge, "thread stack memory mapped", sizeFormatter},
	MapVdsoSize:        {"map:vdso:size", "vdso:sz", Gauge, "vdso memory mapped", sizeFormatter},
	MapVsysSize:        {"map:vsys:size", "vsys:sz", Gauge, "vsyscall memory mapped", sizeFormatter},
	MapVsyscallSize:    {"map:vsyscall:size", "vscl:sz", Gauge, "vsyscall-table memory mapped", sizeFormatter},
	MapVvarSize:        {"map:vvar:size", "vvar:sz", Gauge, "vvar memory mapped", sizeFormatter},
	MapOtherSize:       {"map:other:size", "othr:sz", Gauge, "memory mapped of an unrecognized kind", sizeFormatter},
}

var byName map[string]ID

func init() {
	byName = make(map[string]ID, numIDs)
	for i, info := range idTable {
		byName[info.name] = ID(i)
	}
}

// Lookup resolves a canonical metric name (e.g. "mem:rss") to its ID.
func Lookup(name string) (ID, bool) {
	id, ok := byName[name]
	return id, ok
}

// All returns every known metric ID, in declaration order.
func All() []ID {
	ids := make([]ID, numIDs)
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

func (id ID) String() string {
	if id < 0 || int(id) >= int(numIDs) {
		return fmt.Sprintf("metric.ID(%d)", int(id))
	}
	return idTable[id].name
}

// ShortName is the compact column header used by the table renderer.
func (id ID) ShortName() string { return idTable[id].short }

// Help is a one-line human description of the metric, used by --list.
func (id ID) Help() string { return idTable[id].help }

// DataType reports whether this metric is monotonic (Counter) or a
// point-in-time reading (Gauge); the RRD exporter uses this to pick a data
// source type.
func (id ID) DataType() DataType { return idTable[id].dataType }

// DefaultFormatter is the formatter applied when a metric spec does not
// request a unit override.
func (id ID) DefaultFormatter() Formatter { return idTable[id].formatter }

// IsCPUTime reports whether this metric belongs to the CPU-time family that
// the ratio aggregation computes against system CPU-time delta rather than
// against the metric's own raw value at the same sample index.
func (id ID) IsCPUTime() bool {
	return id == TimeCpu || id == TimeSystem || id == TimeUser
}
