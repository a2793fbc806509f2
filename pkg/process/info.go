package process

import "github.com/oprsmon/oprs/pkg/procfs"

// Info is the identity and latest reading of one tracked process. It is
// rebuilt from procfs on every refresh tick rather than patched in place,
// except for the fields (StartTime, cached for pid-reuse detection) that
// must survive across ticks.
type Info struct {
	Pid       int
	Ppid      int
	StartTime uint64
	Cmdline   []string
	Name      string
	Stat      procfs.ProcessStat
	Visible   bool
}

// DisplayName is the friendlier interpreter-derived name when the command
// line identifies a recognized interpreter (java/perl/python/*sh running a
// script), falling back to the raw comm field otherwise.
func (info Info) DisplayName() string {
	if name, ok := FriendlyName(info.Cmdline); ok {
		return name
	}
	return info.Name
}

// refresh re-reads a tracked process's procfs state. ErrUnknownProcess
// means the pid died (read failed) or was reused by a different process
// (start time changed) — in both cases the caller should drop the node.
var ErrUnknownProcess = procfs.ErrNoSuchProcess

func newInfo(reader *procfs.Reader, pid int) (Info, error) {
	stat, err := reader.ReadProcess(pid)
	if err != nil {
		return Info{}, ErrUnknownProcess
	}
	return Info{
		Pid:       stat.Pid,
		Ppid:      stat.Ppid,
		StartTime: stat.StartTime,
		Cmdline:   stat.Cmdline,
		Name:      stat.Comm,
		Stat:      stat,
	}, nil
}

// refresh re-reads this process's state and reports whether it is still
// the same process (same pid, same start time) or not.
func (info *Info) refresh(reader *procfs.Reader) error {
	stat, err := reader.ReadProcess(info.Pid)
	if err != nil {
		return ErrUnknownProcess
	}
	if stat.StartTime != info.StartTime {
		return ErrUnknownProcess
	}
	info.Ppid = stat.Ppid
	info.Cmdline = stat.Cmdline
	info.Name = stat.Comm
	info.Stat = stat
	return nil
}
