//go:build unix

package mutex

import "golang.org/x/sys/unix"

func lockFile(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_EX)
}

func tryLockFile(fd uintptr) (bool, error) {
	err := unix.Flock(int(fd), unix.LOCK_EX|unix.LOCK_NB)
	if err == unix.EWOULDBLOCK {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func unlockFile(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_UN)
}
