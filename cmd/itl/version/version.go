package version

import (
	"fmt"
	"io"
	"runtime"
)

var (
	Version string = "dev"
)

func Print() {
	fmt.Printf("itl version %s\n", Version)
	fmt.Printf("%s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func Fprint(w io.Writer) {
	fmt.Fprintf(w, "itl version %s\n", Version)
	fmt.Fprintf(w, "%s/%s\n", runtime.GOOS, runtime.GOARCH)
}
