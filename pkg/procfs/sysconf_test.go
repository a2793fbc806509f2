package procfs

import "github.com/oprsmon/oprs/pkg/sysconf"

func testSysconf() sysconf.Config {
	return sysconf.Load()
}
