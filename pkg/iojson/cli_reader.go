package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrStdinTerminal is returned when input would be read from an interactive
// terminal instead of a pipe or file.
var ErrStdinTerminal = errors.New("no input provided (stdin is a terminal); use -f flag or pipe input")

// FileReader binds a --file flag and opens either that file or stdin.
type FileReader[T any] struct {
	fileFlagValue string
	usage         string
	stdin         *os.File
}

// NewFileReader creates a FileReader whose flag carries the given usage text.
func NewFileReader[T any](usage string) *FileReader[T] {
	return &FileReader[T]{usage: usage}
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	usage := fr.usage
	if usage == "" {
		usage = "path to JSON file (reads from stdin if not provided)"
	}
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       usage,
		Destination: &fr.fileFlagValue,
	}
}

// Path returns the value of the --file flag.
func (fr *FileReader[T]) Path() string {
	return fr.fileFlagValue
}

// Open returns the flagged file, or stdin when no file was given. Stdin is
// refused when it is a terminal.
func (fr *FileReader[T]) Open() (io.ReadCloser, error) {
	if fr.fileFlagValue != "" {
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return f, nil
	}

	stdin := fr.stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return nil, ErrStdinTerminal
	}
	return io.NopCloser(stdin), nil
}

// Read decodes a JSON document of type T from the flagged file or stdin.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	reader, err := fr.Open()
	if err != nil {
		return input, err
	}
	defer func() { _ = reader.Close() }()

	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}
