// Package prompt reads secrets for the operator command line tools.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Password writes label to out and reads one line from in. Terminal input is
// not echoed; pipes and buffers are read line by line.
func Password(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	defer fmt.Fprintln(out)

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
