//go:build !windows

package discord

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// socketDirEnv lists the variables Discord uses to pick its socket directory, in order.
var socketDirEnv = []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"}

func socketDir() string {
	for _, key := range socketDirEnv {
		if dir := os.Getenv(key); dir != "" {
			return dir
		}
	}
	return "/tmp"
}

// CandidatePaths lists the sockets a running Discord client may listen on.
func CandidatePaths() []string {
	dir := socketDir()
	paths := make([]string, 0, maxSocketIndex)
	for i := 0; i < maxSocketIndex; i++ {
		paths = append(paths, filepath.Join(dir, fmt.Sprintf("%s%d", socketPrefix, i)))
	}
	return paths
}

func dialSocket(ctx context.Context, path string) (conn, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, err
	}
	return c, nil
}
