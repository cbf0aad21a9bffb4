// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package symtab

// syscallsI386 maps syscall names to numbers for the 32-bit x86 ABI, from
// arch/x86/entry/syscalls/syscall_32.tbl. Direct socket syscalls exist
// only since Linux 4.3; older policies went through socketcall.
var syscallsI386 = map[string]int{
	"restart_syscall":        0,
	"exit":                   1,
	"fork":                   2,
	"read":                   3,
	"write":                  4,
	"open":                   5,
	"close":                  6,
	"creat":                  8,
	"link":                   9,
	"unlink":                 10,
	"execve":                 11,
	"chdir":                  12,
	"time":                   13,
	"mknod":                  14,
	"chmod":                  15,
	"lseek":                  19,
	"getpid":                 20,
	"setuid":                 23,
	"getuid":                 24,
	"ptrace":                 26,
	"alarm":                  27,
	"pause":                  29,
	"access":                 33,
	"sync":                   36,
	"kill":                   37,
	"rename":                 38,
	"mkdir":                  39,
	"rmdir":                  40,
	"dup":                    41,
	"pipe":                   42,
	"times":                  43,
	"brk":                    45,
	"setgid":                 46,
	"getgid":                 47,
	"geteuid":                49,
	"getegid":                50,
	"umount2":                52,
	"ioctl":                  54,
	"fcntl":                  55,
	"setpgid":                57,
	"umask":                  60,
	"dup2":                   63,
	"getppid":                64,
	"getpgrp":                65,
	"setsid":                 66,
	"setrlimit":              75,
	"getrusage":              77,
	"gettimeofday":           78,
	"symlink":                83,
	"readlink":               85,
	"munmap":                 91,
	"truncate":               92,
	"ftruncate":              93,
	"fchmod":                 94,
	"fchown":                 95,
	"getpriority":            96,
	"setpriority":            97,
	"statfs":                 99,
	"fstatfs":                100,
	"socketcall":             102,
	"syslog":                 103,
	"setitimer":              104,
	"getitimer":              105,
	"stat":                   106,
	"lstat":                  107,
	"fstat":                  108,
	"wait4":                  114,
	"sysinfo":                116,
	"fsync":                  118,
	"sigreturn":              119,
	"clone":                  120,
	"uname":                  122,
	"mprotect":               125,
	"getpgid":                132,
	"fchdir":                 133,
	"personality":            136,
	"_llseek":                140,
	"getdents":               141,
	"flock":                  143,
	"msync":                  144,
	"readv":                  145,
	"writev":                 146,
	"getsid":                 147,
	"fdatasync":              148,
	"mlock":                  150,
	"munlock":                151,
	"mlockall":               152,
	"munlockall":             153,
	"sched_setparam":         154,
	"sched_getparam":         155,
	"sched_setscheduler":     156,
	"sched_getscheduler":     157,
	"sched_yield":            158,
	"sched_get_priority_max": 159,
	"sched_get_priority_min": 160,
	"nanosleep":              162,
	"mremap":                 163,
	"setresuid":              164,
	"getresuid":              165,
	"poll":                   168,
	"setresgid":              170,
	"getresgid":              171,
	"prctl":                  172,
	"rt_sigreturn":           173,
	"rt_sigaction":           174,
	"rt_sigprocmask":         175,
	"rt_sigpending":          176,
	"rt_sigtimedwait":        177,
	"rt_sigqueueinfo":        178,
	"rt_sigsuspend":          179,
	"pread64":                180,
	"pwrite64":               181,
	"chown":                  182,
	"getcwd":                 183,
	"capget":                 184,
	"capset":                 185,
	"sigaltstack":            186,
	"sendfile":               187,
	"vfork":                  190,
	"ugetrlimit":             191,
	"mmap2":                  192,
	"truncate64":             193,
	"ftruncate64":            194,
	"stat64":                 195,
	"lstat64":                196,
	"fstat64":                197,
	"getuid32":               199,
	"getgid32":               200,
	"geteuid32":              201,
	"getegid32":              202,
	"setreuid32":             203,
	"setregid32":             204,
	"fchown32":               207,
	"setresuid32":            208,
	"getresuid32":            209,
	"setresgid32":            210,
	"getresgid32":            211,
	"chown32":                212,
	"setuid32":               213,
	"setgid32":               214,
	"mincore":                218,
	"madvise":                219,
	"getdents64":             220,
	"fcntl64":                221,
	"gettid":                 224,
	"readahead":              225,
	"tkill":                  238,
	"sendfile64":             239,
	"futex":                  240,
	"sched_setaffinity":      241,
	"sched_getaffinity":      242,
	"set_thread_area":        243,
	"get_thread_area":        244,
	"fadvise64":              250,
	"exit_group":             252,
	"epoll_create":           254,
	"epoll_ctl":              255,
	"epoll_wait":             256,
	"set_tid_address":        258,
	"timer_create":           259,
	"timer_settime":          260,
	"timer_gettime":          261,
	"timer_getoverrun":       262,
	"timer_delete":           263,
	"clock_settime":          264,
	"clock_gettime":          265,
	"clock_getres":           266,
	"clock_nanosleep":        267,
	"statfs64":               268,
	"fstatfs64":              269,
	"tgkill":                 270,
	"fadvise64_64":           272,
	"waitid":                 284,
	"ioprio_set":             289,
	"ioprio_get":             290,
	"inotify_init":           291,
	"inotify_add_watch":      292,
	"inotify_rm_watch":       293,
	"openat":                 295,
	"mkdirat":                296,
	"mknodat":                297,
	"fchownat":               298,
	"fstatat64":              300,
	"unlinkat":               301,
	"renameat":               302,
	"linkat":                 303,
	"symlinkat":              304,
	"readlinkat":             305,
	"fchmodat":               306,
	"faccessat":              307,
	"pselect6":               308,
	"ppoll":                  309,
	"set_robust_list":        311,
	"get_robust_list":        312,
	"splice":                 313,
	"sync_file_range":        314,
	"tee":                    315,
	"vmsplice":               316,
	"getcpu":                 318,
	"epoll_pwait":            319,
	"utimensat":              320,
	"signalfd":               321,
	"timerfd_create":         322,
	"eventfd":                323,
	"fallocate":              324,
	"timerfd_settime":        325,
	"timerfd_gettime":        326,
	"signalfd4":              327,
	"eventfd2":               328,
	"epoll_create1":          329,
	"dup3":                   330,
	"pipe2":                  331,
	"inotify_init1":          332,
	"preadv":                 333,
	"pwritev":                334,
	"recvmmsg":               337,
	"prlimit64":              340,
	"syncfs":                 344,
	"sendmmsg":               345,
	"sched_setattr":          351,
	"sched_getattr":          352,
	"renameat2":              353,
	"seccomp":                354,
	"getrandom":              355,
	"memfd_create":           356,
	"execveat":               358,
	"socket":                 359,
	"socketpair":             360,
	"bind":                   361,
	"connect":                362,
	"listen":                 363,
	"accept4":                364,
	"getsockopt":             365,
	"setsockopt":             366,
	"getsockname":            367,
	"getpeername":            368,
	"sendto":                 369,
	"sendmsg":                370,
	"recvfrom":               371,
	"recvmsg":                372,
	"shutdown":               373,
	"membarrier":             375,
	"mlock2":                 376,
	"copy_file_range":        377,
	"preadv2":                378,
	"pwritev2":               379,
	"statx":                  383,
	"arch_prctl":             384,
	"rseq":                   386,
	"pidfd_send_signal":      424,
	"io_uring_setup":         425,
	"io_uring_enter":         426,
	"io_uring_register":      427,
	"pidfd_open":             434,
	"clone3":                 435,
	"close_range":            436,
	"openat2":                437,
	"pidfd_getfd":            438,
	"faccessat2":             439,
	"process_madvise":        440,
	"epoll_pwait2":           441,
}
