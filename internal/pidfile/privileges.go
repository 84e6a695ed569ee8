package pidfile

import (
	"fmt"
	"os/user"
	"strconv"
	"syscall"
)

// DropPrivileges switches the running process to username's uid/gid,
// grounded on the original daemon's daemonize_set_user (Daemon.cxx): set
// the group id before the user id, since changing uid first would forfeit
// the privilege needed to change gid. A blank username is a no-op.
func DropPrivileges(username string) error {
	if username == "" {
		return nil
	}
	u, err := user.Lookup(username)
	if err != nil {
		return fmt.Errorf("looking up user %s: %w", username, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return fmt.Errorf("parsing gid for user %s: %w", username, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return fmt.Errorf("parsing uid for user %s: %w", username, err)
	}
	if err := syscall.Setgid(gid); err != nil {
		return fmt.Errorf("setgid to %s's group: %w", username, err)
	}
	if err := syscall.Setuid(uid); err != nil {
		return fmt.Errorf("setuid to %s: %w", username, err)
	}
	return nil
}
