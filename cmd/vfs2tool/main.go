// Command vfs2tool lists and extracts the contents of VFS2 archives.
//
//	vfs2tool info [-v] <input>
//	vfs2tool unpack [-v] -o <dir> <input>
//	vfs2tool cat <input> <path>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vfs2tool: %v\n", err)
		os.Exit(1)
	}
}
