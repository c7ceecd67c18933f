// Command skuctl generates and manages SKUs against the configured storage
// backend without running the HTTP server.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yungbote/skugen-backend/internal/platform/apierr"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("error: "+err.Error()))
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for input the services rejected and 1 for everything else.
func exitCode(err error) int {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status >= 400 && ae.Status < 500 {
		return 2
	}
	return 1
}
