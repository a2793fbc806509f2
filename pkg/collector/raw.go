package collector

import (
	"github.com/oprsmon/oprs/pkg/metric"
	"github.com/oprsmon/oprs/pkg/procfs"
)

// rawValue extracts id's current reading from a ProcessStat. This is the
// single place that maps a metric.ID onto the concrete procfs field that
// backs it.
func rawValue(id metric.ID, stat procfs.ProcessStat) int64 {
	switch id {
	case metric.FaultMinor:
		return int64(stat.MinFlt)
	case metric.FaultMajor:
		return int64(stat.MajFlt)
	case metric.IoReadCall:
		return int64(stat.IoReadCall)
	case metric.IoReadCount:
		return int64(stat.IoReadCount)
	case metric.IoReadStorage:
		return int64(stat.IoReadStorage)
	case metric.IoWriteCall:
		return int64(stat.IoWriteCall)
	case metric.IoWriteCount:
		return int64(stat.IoWriteCount)
	case metric.IoWriteStorage:
		return int64(stat.IoWriteStorage)
	case metric.MemRss:
		return int64(stat.RssBytes)
	case metric.MemVm:
		return int64(stat.VmSize)
	case metric.MemText:
		return int64(stat.TextBytes)
	case metric.MemData:
		return int64(stat.DataBytes)
	case metric.TimeElapsed:
		return int64(stat.ElapsedMs)
	case metric.TimeCpu:
		return int64(stat.UTimeMs + stat.STimeMs)
	case metric.TimeSystem:
		return int64(stat.STimeMs)
	case metric.TimeUser:
		return int64(stat.UTimeMs)
	case metric.ThreadCount:
		return int64(stat.ThreadCount)
	case metric.FdAll:
		return int64(stat.FdAll)
	case metric.FdHigh:
		return int64(stat.FdHigh)
	case metric.FdAnon:
		return int64(stat.FdByKind[procfs.FdKindAnon])
	case metric.FdFile:
		return int64(stat.FdByKind[procfs.FdKindFile])
	case metric.FdMemFile:
		return int64(stat.FdByKind[procfs.FdKindMemFile])
	case metric.FdNet:
		return int64(stat.FdByKind[procfs.FdKindNet])
	case metric.FdOther:
		return int64(stat.FdByKind[procfs.FdKindOther])
	case metric.FdPipe:
		return int64(stat.FdByKind[procfs.FdKindPipe])
	case metric.FdSocket:
		return int64(stat.FdByKind[procfs.FdKindSocket])
	case metric.MapAnonCount:
		return int64(stat.MapByKind[procfs.MapKindAnon].Count)
	case metric.MapHeapCount:
		return int64(stat.MapByKind[procfs.MapKindHeap].Count)
	case metric.MapFileCount:
		return int64(stat.MapByKind[procfs.MapKindFile].Count)
	case metric.MapStackCount:
		return int64(stat.MapByKind[procfs.MapKindStack].Count)
	case metric.MapThreadStackCount:
		return int64(stat.MapByKind[procfs.MapKindThreadStack].Count)
	case metric.MapVdsoCount:
		return int64(stat.MapByKind[procfs.MapKindVdso].Count)
	case metric.MapVsysCount:
		return int64(stat.MapByKind[procfs.MapKindVsys].Count)
	case metric.MapVsyscallCount:
		return int64(stat.MapByKind[procfs.MapKindVsyscall].Count)
	case metric.MapVvarCount:
		return int64(stat.MapByKind[procfs.MapKindVvar].Count)
	case metric.MapOtherCount:
		return int64(stat.MapByKind[procfs.MapKindOther].Count)
	case metric.MapAnonSize:
		return int64(stat.MapByKind[procfs.MapKindAnon].Size)
	case metric.MapHeapSize:
		return int64(stat.MapByKind[procfs.MapKindHeap].Size)
	case metric.MapFileSize:
		return int64(stat.MapByKind[procfs.MapKindFile].Size)
	case metric.MapStackSize:
		return int64(stat.MapByKind[procfs.MapKindStack].Size)
	case metric.MapThreadStackSize:
		return int64(stat.MapByKind[procfs.MapKindThreadStack].Size)
	case metric.MapVdsoSize:
		return int64(stat.MapByKind[procfs.MapKindVdso].Size)
	case metric.MapVsysSize:
		return int64(stat.MapByKind[procfs.MapKindVsys].Size)
	case metric.MapVsyscallSize:
		return int64(stat.MapByKind[procfs.MapKindVsyscall].Size)
	case metric.MapVvarSize:
		return int64(stat.MapByKind[procfs.MapKindVvar].Size)
	case metric.MapOtherSize:
		return int64(stat.MapByKind[procfs.MapKindOther].Size)
	default:
		return 0
	}
}

// systemValue returns the system-wide denominator ratio aggregation uses
// for non-CPU-time metrics ("percentage of the system total"), and
// whether one is defined for id at all.
func systemValue(id metric.ID, sys procfs.SystemStat) (int64, bool) {
	switch id {
	case metric.MemRss, metric.MemVm, metric.MemText, metric.MemData:
		return int64(sys.MemTotalBytes), true
	default:
		return 0, false
	}
}
