//go:build windows

package discord

import (
	"context"
	"fmt"
	"os"
)

// CandidatePaths lists the named pipes a running Discord client may listen on.
func CandidatePaths() []string {
	paths := make([]string, 0, maxSocketIndex)
	for i := 0; i < maxSocketIndex; i++ {
		paths = append(paths, fmt.Sprintf(`\\.\pipe\%s%d`, socketPrefix, i))
	}
	return paths
}

func dialSocket(ctx context.Context, path string) (conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return f, nil
}
