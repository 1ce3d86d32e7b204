package utils

import (
	"io"
	"os"
	"strings"
)

// StdinArg is the argument value that means "read it from standard input"
const StdinArg = "-"

// ReadMessage reads all of f and trims surrounding whitespace.
// A terminal or an empty regular file yields "" without blocking.
func ReadMessage(f *os.File) (string, error) {
	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", nil
	}
	if stat.Mode().IsRegular() && stat.Size() == 0 {
		return "", nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ReadFromStdin reads a message piped to the process
func ReadFromStdin() (string, error) {
	return ReadMessage(os.Stdin)
}
