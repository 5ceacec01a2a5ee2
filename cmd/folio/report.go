package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/folio/pkg/core"
)

// errDocuments signals that some documents were excluded. The report has
// already been printed, so main only sets the exit code.
var errDocuments = errors.New("some documents failed")

// report prints one line per document error and returns errDocuments when
// there were any. Other errors are returned unchanged.
func report(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	var be *core.BuildErrors
	if !errors.As(err, &be) {
		return err
	}
	for _, e := range be.Errs {
		fmt.Fprintln(w, e)
	}
	fmt.Fprintf(w, "%d document(s) excluded\n", be.Len())
	return errDocuments
}
