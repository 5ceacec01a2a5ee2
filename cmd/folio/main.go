package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(exitStatus(os.Stderr, rootCmd.Execute()))
}

// exitStatus prints err unless the document report already did, and maps it
// to the process exit status.
func exitStatus(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, errDocuments) {
		fmt.Fprintln(w, err)
	}
	return 1
}
