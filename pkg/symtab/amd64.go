// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package symtab

// syscallsAMD64 maps syscall names to numbers for the x86_64 ABI, from
// arch/x86/entry/syscalls/syscall_64.tbl. The table covers the syscalls
// device-worker policies reference; it is not the full kernel set.
var syscallsAMD64 = map[string]int{
	"read":                   0,
	"write":                  1,
	"open":                   2,
	"close":                  3,
	"stat":                   4,
	"fstat":                  5,
	"lstat":                  6,
	"poll":                   7,
	"lseek":                  8,
	"mmap":                   9,
	"mprotect":               10,
	"munmap":                 11,
	"brk":                    12,
	"rt_sigaction":           13,
	"rt_sigprocmask":         14,
	"rt_sigreturn":           15,
	"ioctl":                  16,
	"pread64":                17,
	"pwrite64":               18,
	"readv":                  19,
	"writev":                 20,
	"access":                 21,
	"pipe":                   22,
	"select":                 23,
	"sched_yield":            24,
	"mremap":                 25,
	"msync":                  26,
	"mincore":                27,
	"madvise":                28,
	"dup":                    32,
	"dup2":                   33,
	"pause":                  34,
	"nanosleep":              35,
	"getitimer":              36,
	"alarm":                  37,
	"setitimer":              38,
	"getpid":                 39,
	"sendfile":               40,
	"socket":                 41,
	"connect":                42,
	"accept":                 43,
	"sendto":                 44,
	"recvfrom":               45,
	"sendmsg":                46,
	"recvmsg":                47,
	"shutdown":               48,
	"bind":                   49,
	"listen":                 50,
	"getsockname":            51,
	"getpeername":            52,
	"socketpair":             53,
	"setsockopt":             54,
	"getsockopt":             55,
	"clone":                  56,
	"fork":                   57,
	"vfork":                  58,
	"execve":                 59,
	"exit":                   60,
	"wait4":                  61,
	"kill":                   62,
	"uname":                  63,
	"fcntl":                  72,
	"flock":                  73,
	"fsync":                  74,
	"fdatasync":              75,
	"truncate":               76,
	"ftruncate":              77,
	"getdents":               78,
	"getcwd":                 79,
	"chdir":                  80,
	"fchdir":                 81,
	"rename":                 82,
	"mkdir":                  83,
	"rmdir":                  84,
	"creat":                  85,
	"link":                   86,
	"unlink":                 87,
	"symlink":                88,
	"readlink":               89,
	"chmod":                  90,
	"fchmod":                 91,
	"chown":                  92,
	"fchown":                 93,
	"umask":                  95,
	"gettimeofday":           96,
	"getrlimit":              97,
	"getrusage":              98,
	"sysinfo":                99,
	"times":                  100,
	"ptrace":                 101,
	"getuid":                 102,
	"syslog":                 103,
	"getgid":                 104,
	"setuid":                 105,
	"setgid":                 106,
	"geteuid":                107,
	"getegid":                108,
	"setpgid":                109,
	"getppid":                110,
	"getpgrp":                111,
	"setsid":                 112,
	"setresuid":              117,
	"getresuid":              118,
	"setresgid":              119,
	"getresgid":              120,
	"capget":                 125,
	"capset":                 126,
	"rt_sigpending":          127,
	"rt_sigtimedwait":        128,
	"rt_sigqueueinfo":        129,
	"rt_sigsuspend":          130,
	"sigaltstack":            131,
	"personality":            135,
	"statfs":                 137,
	"fstatfs":                138,
	"getpriority":            140,
	"setpriority":            141,
	"sched_setparam":         142,
	"sched_getparam":         143,
	"sched_setscheduler":     144,
	"sched_getscheduler":     145,
	"sched_get_priority_max": 146,
	"sched_get_priority_min": 147,
	"mlock":                  149,
	"munlock":                150,
	"mlockall":               151,
	"munlockall":             152,
	"prctl":                  157,
	"arch_prctl":             158,
	"setrlimit":              160,
	"sync":                   162,
	"gettid":                 186,
	"readahead":              187,
	"tkill":                  200,
	"time":                   201,
	"futex":                  202,
	"sched_setaffinity":      203,
	"sched_getaffinity":      204,
	"epoll_create":           213,
	"getdents64":             217,
	"set_tid_address":        218,
	"restart_syscall":        219,
	"fadvise64":              221,
	"timer_create":           222,
	"timer_settime":          223,
	"timer_gettime":          224,
	"timer_getoverrun":       225,
	"timer_delete":           226,
	"clock_settime":          227,
	"clock_gettime":          228,
	"clock_getres":           229,
	"clock_nanosleep":        230,
	"exit_group":             231,
	"epoll_wait":             232,
	"epoll_ctl":              233,
	"tgkill":                 234,
	"waitid":                 247,
	"ioprio_set":             251,
	"ioprio_get":             252,
	"inotify_init":           253,
	"inotify_add_watch":      254,
	"inotify_rm_watch":       255,
	"openat":                 257,
	"mkdirat":                258,
	"mknodat":                259,
	"fchownat":               260,
	"newfstatat":             262,
	"unlinkat":               263,
	"renameat":               264,
	"linkat":                 265,
	"symlinkat":              266,
	"readlinkat":             267,
	"fchmodat":               268,
	"faccessat":              269,
	"pselect6":               270,
	"ppoll":                  271,
	"set_robust_list":        273,
	"get_robust_list":        274,
	"splice":                 275,
	"tee":                    276,
	"sync_file_range":        277,
	"vmsplice":               278,
	"utimensat":              280,
	"epoll_pwait":            281,
	"signalfd":               282,
	"timerfd_create":         283,
	"eventfd":                284,
	"fallocate":              285,
	"timerfd_settime":        286,
	"timerfd_gettime":        287,
	"accept4":                288,
	"signalfd4":              289,
	"eventfd2":               290,
	"epoll_create1":          291,
	"dup3":                   292,
	"pipe2":                  293,
	"inotify_init1":          294,
	"preadv":                 295,
	"pwritev":                296,
	"recvmmsg":               299,
	"prlimit64":              302,
	"syncfs":                 306,
	"sendmmsg":               307,
	"getcpu":                 309,
	"sched_setattr":          314,
	"sched_getattr":          315,
	"renameat2":              316,
	"seccomp":                317,
	"getrandom":              318,
	"memfd_create":           319,
	"execveat":               322,
	"membarrier":             324,
	"mlock2":                 325,
	"copy_file_range":        326,
	"preadv2":                327,
	"pwritev2":               328,
	"statx":                  332,
	"rseq":                   334,
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
