// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package symtab

import (
	"github.com/devicejail/devicejail/pkg/arch"
)

// ioctl request encoding, include/uapi/asm-generic/ioctl.h. The x86 and
// arm64 ABIs share this layout.
const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	iocNrShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, typ, nr, size uint64) uint64 {
	return dir<<iocDirShift | size<<iocSizeShift | typ<<iocTypeShift | nr<<iocNrShift
}

func io(typ, nr uint64) uint64         { return ioc(iocNone, typ, nr, 0) }
func ior(typ, nr, size uint64) uint64  { return ioc(iocRead, typ, nr, size) }
func iow(typ, nr, size uint64) uint64  { return ioc(iocWrite, typ, nr, size) }
func iowr(typ, nr, size uint64) uint64 { return ioc(iocRead|iocWrite, typ, nr, size) }

// vhost ioctls, include/uapi/linux/vhost.h. The vhost worker policies need
// these to constrain the ioctl request argument to ring and backend setup.
const (
	vhostType = 0xaf

	sizeVringState = 8
	sizeVringFile  = 8
	sizeVringAddr  = 40
	sizeU64        = 8
	sizeInt        = 4
	sizeMemTable   = 8
)

// baseConstants holds the symbols whose values are identical across the
// supported architectures. Values are spelled as Linux UAPI literals, not
// taken from golang.org/x/sys/unix: the table describes the target ABI
// and must not change with the build platform, and compilation has to
// work on non-Linux hosts too. Anything that varies between the supported
// ABIs belongs in archConstants below.
var baseConstants = map[string]uint64{
	// socket(2) families
	"AF_UNSPEC":  0,
	"AF_UNIX":    1,
	"AF_INET":    2,
	"AF_INET6":   10,
	"AF_NETLINK": 16,
	"AF_PACKET":  17,
	"AF_VSOCK":   40,

	// socket(2) types and flags
	"SOCK_STREAM":    1,
	"SOCK_DGRAM":     2,
	"SOCK_RAW":       3,
	"SOCK_SEQPACKET": 5,
	"SOCK_CLOEXEC":   0x80000,
	"SOCK_NONBLOCK":  0x800,

	// fcntl(2) commands
	"F_DUPFD":         0,
	"F_GETFD":         1,
	"F_SETFD":         2,
	"F_GETFL":         3,
	"F_SETFL":         4,
	"F_DUPFD_CLOEXEC": 1030,
	"F_ADD_SEALS":     1033,
	"F_GET_SEALS":     1034,
	"FD_CLOEXEC":      1,

	// open(2) flags shared by all supported ABIs
	"O_RDONLY":   0,
	"O_WRONLY":   0x1,
	"O_RDWR":     0x2,
	"O_ACCMODE":  0x3,
	"O_CREAT":    0x40,
	"O_EXCL":     0x80,
	"O_NOCTTY":   0x100,
	"O_TRUNC":    0x200,
	"O_APPEND":   0x400,
	"O_NONBLOCK": 0x800,
	"O_CLOEXEC":  0x80000,
	"O_SYNC":     0x101000,

	// mmap(2)
	"PROT_NONE":     0,
	"PROT_READ":     0x1,
	"PROT_WRITE":    0x2,
	"PROT_EXEC":     0x4,
	"MAP_SHARED":    0x1,
	"MAP_PRIVATE":   0x2,
	"MAP_FIXED":     0x10,
	"MAP_ANONYMOUS": 0x20,
	"MAP_LOCKED":    0x2000,
	"MAP_NORESERVE": 0x4000,
	"MAP_POPULATE":  0x8000,

	// madvise(2)
	"MADV_NORMAL":     0,
	"MADV_RANDOM":     1,
	"MADV_SEQUENTIAL": 2,
	"MADV_WILLNEED":   3,
	"MADV_DONTNEED":   4,
	"MADV_FREE":       8,
	"MADV_REMOVE":     9,
	"MADV_DONTFORK":   10,
	"MADV_HUGEPAGE":   14,
	"MADV_NOHUGEPAGE": 15,
	"MADV_DONTDUMP":   16,

	// futex(2) ops
	"FUTEX_WAIT":           0,
	"FUTEX_WAKE":           1,
	"FUTEX_REQUEUE":        3,
	"FUTEX_CMP_REQUEUE":    4,
	"FUTEX_WAKE_OP":        5,
	"FUTEX_WAIT_BITSET":    9,
	"FUTEX_WAKE_BITSET":    10,
	"FUTEX_PRIVATE_FLAG":   128,
	"FUTEX_CLOCK_REALTIME": 256,

	// epoll
	"EPOLL_CTL_ADD": 1,
	"EPOLL_CTL_DEL": 2,
	"EPOLL_CTL_MOD": 3,
	"EPOLL_CLOEXEC": 0x80000,

	// eventfd2(2) flags
	"EFD_SEMAPHORE": 0x1,
	"EFD_CLOEXEC":   0x80000,
	"EFD_NONBLOCK":  0x800,

	// clone(2) flags used by thread creation
	"CLONE_VM":      0x100,
	"CLONE_FS":      0x200,
	"CLONE_FILES":   0x400,
	"CLONE_SIGHAND": 0x800,
	"CLONE_THREAD":  0x10000,
	"CLONE_SYSVSEM": 0x40000,
	"CLONE_SETTLS":  0x80000,

	// terminal and fd ioctls (asm-generic layout, shared by x86 and arm64)
	"TCGETS":     0x5401,
	"TCSETS":     0x5402,
	"TIOCGWINSZ": 0x5413,
	"FIONREAD":   0x541b,
	"FIONBIO":    0x5421,
	"FIOCLEX":    0x5451,
	"BLKDISCARD": io(0x12, 119),

	// vhost setup ioctls issued by the vhost-net device worker
	"VHOST_GET_FEATURES":    ior(vhostType, 0x00, sizeU64),
	"VHOST_SET_FEATURES":    iow(vhostType, 0x00, sizeU64),
	"VHOST_SET_OWNER":       io(vhostType, 0x01),
	"VHOST_RESET_OWNER":     io(vhostType, 0x02),
	"VHOST_SET_MEM_TABLE":   iow(vhostType, 0x03, sizeMemTable),
	"VHOST_SET_LOG_BASE":    iow(vhostType, 0x04, sizeU64),
	"VHOST_SET_LOG_FD":      iow(vhostType, 0x07, sizeInt),
	"VHOST_SET_VRING_NUM":   iow(vhostType, 0x10, sizeVringState),
	"VHOST_SET_VRING_ADDR":  iow(vhostType, 0x11, sizeVringAddr),
	"VHOST_SET_VRING_BASE":  iow(vhostType, 0x12, sizeVringState),
	"VHOST_GET_VRING_BASE":  iowr(vhostType, 0x12, sizeVringState),
	"VHOST_SET_VRING_KICK":  iow(vhostType, 0x20, sizeVringFile),
	"VHOST_SET_VRING_CALL":  iow(vhostType, 0x21, sizeVringFile),
	"VHOST_SET_VRING_ERR":   iow(vhostType, 0x22, sizeVringFile),
	"VHOST_NET_SET_BACKEND": iow(vhostType, 0x30, sizeVringFile),
}

// archConstants holds the symbols whose encodings differ between ABIs.
var archConstants = map[arch.Arch]map[string]uint64{
	arch.AMD64: {
		"O_DIRECT":    0x4000,
		"O_LARGEFILE": 0x8000,
		"O_DIRECTORY": 0x10000,
		"O_NOFOLLOW":  0x20000,
		// BLKGETSIZE64 is _IOR(0x12, 114, size_t); the size field tracks
		// the ABI's size_t width.
		"BLKGETSIZE64": ior(0x12, 114, 8),
	},
	arch.I386: {
		"O_DIRECT":     0x4000,
		"O_LARGEFILE":  0x8000,
		"O_DIRECTORY":  0x10000,
		"O_NOFOLLOW":   0x20000,
		"BLKGETSIZE64": ior(0x12, 114, 4),
	},
	arch.ARM64: {
		"O_DIRECTORY":  0x4000,
		"O_NOFOLLOW":   0x8000,
		"O_DIRECT":     0x10000,
		"O_LARGEFILE":  0x20000,
		"BLKGETSIZE64": ior(0x12, 114, 8),
	},
}
