package procfs

import "testing"

func TestClassifyFd(t *testing.T) {
	cases := []struct {
		target string
		want   FdKind
	}{
		{"socket:[12345]", FdKindSocket},
		{"pipe:[6789]", FdKindPipe},
		{"anon_inode:[eventfd]", FdKindAnon},
		{"/memfd:test (deleted)", FdKindMemFile},
		{"/home/user/file.txt", FdKindFile},
		{"", FdKindOther},
	}
	for _, c := range cases {
		if got := classifyFd(c.target); got != c.want {
			t.Errorf("classifyFd(%q) = %v, want %v", c.target, got, c.want)
		}
	}
}

func TestClassifyMap(t *testing.T) {
	cases := []struct {
		pathname string
		want     MapKind
	}{
		{"", MapKindAnon},
		{"[heap]", MapKindHeap},
		{"[stack]", MapKindStack},
		{"[stack:12345]", MapKindThreadStack},
		{"[vdso]", MapKindVdso},
		{"[vsyscall]", MapKindVsyscall},
		{"[vvar]", MapKindVvar},
		{"/usr/lib/libc.so.6", MapKindFile},
		{"[something-else]", MapKindOther},
	}
	for _, c := range cases {
		if got := classifyMap(c.pathname); got != c.want {
			t.Errorf("classifyMap(%q) = %v, want %v", c.pathname, got, c.want)
		}
	}
}

func TestReadFdsMissingProcess(t *testing.T) {
	all, high, byKind := readFds(1<<30 - 1)
	if all != 0 || high != 0 || len(byKind) != 0 {
		t.Errorf("expected empty result for nonexistent pid, got all=%d high=%d byKind=%v", all, high, byKind)
	}
}

func TestReadProcessNoSuchProcess(t *testing.T) {
	r := NewReader(testSysconf())
	_, err := r.ReadProcess(1<<30 - 1)
	if err != ErrNoSuchProcess {
		t.Errorf("expected ErrNoSuchProcess, got %v", err)
	}
}
