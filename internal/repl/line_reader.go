package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/abiosoft/readline"
	"golang.org/x/term"
)

const (
	streamReaderBufferSizeConstant        = 4096
	defaultStreamRetainedLineSizeConstant = 1024 * 1024
	interruptPromptConstant               = "^C"
)

// LineReader yields input lines without their trailing newline. ReadLine
// returns io.EOF once input is exhausted and ErrLineInterrupted when the
// current line was abandoned.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// LineReaderOptions describes the streams a LineReader is attached to.
type LineReaderOptions struct {
	Input       io.Reader
	Output      io.Writer
	Errors      io.Writer
	HistoryFile string
	// MaxLineLength bounds how much of one piped line is kept. Bytes past the
	// bound and a few more are discarded without ending the stream.
	MaxLineLength int
}

// NewLineReader returns a readline editor when Input is a terminal and a
// StreamLineReader otherwise.
func NewLineReader(options LineReaderOptions) (LineReader, error) {
	if options.Output == nil {
		options.Output = io.Discard
	}
	if options.Errors == nil {
		options.Errors = options.Output
	}
	if !IsTerminal(options.Input) {
		return NewStreamLineReader(options.Input, options.Output, options.MaxLineLength), nil
	}

	readlineConfiguration := &readline.Config{
		Stdin:           readline.NewCancelableStdin(options.Input),
		Stdout:          options.Output,
		Stderr:          options.Errors,
		HistoryFile:     options.HistoryFile,
		InterruptPrompt: interruptPromptConstant,
	}
	if configurationError := readlineConfiguration.Init(); configurationError != nil {
		return nil, fmt.Errorf(lineReaderCreationErrorTemplateConstant, configurationError)
	}

	instance, instanceError := readline.NewEx(readlineConfiguration)
	if instanceError != nil {
		return nil, fmt.Errorf(lineReaderCreationErrorTemplateConstant, instanceError)
	}
	return &readlineLineReader{instance: instance}, nil
}

// IsTerminal reports whether stream is an operating system file attached to a terminal.
func IsTerminal(stream any) bool {
	file, isFile := stream.(*os.File)
	if !isFile || file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

type readlineLineReader struct {
	instance *readline.Instance
}

func (reader *readlineLineReader) ReadLine(prompt string) (string, error) {
	reader.instance.SetPrompt(prompt)
	line, readError := reader.instance.Readline()
	if errors.Is(readError, readline.ErrInterrupt) {
		return "", ErrLineInterrupted
	}
	return line, readError
}

func (reader *readlineLineReader) Close() error {
	return reader.instance.Close()
}

// StreamLineReader prints the prompt and reads one line per call from a
// non-interactive stream. Lines longer than the retention bound are cut and the
// rest of the line is skipped, so one oversized line never ends the session.
type StreamLineReader struct {
	output            io.Writer
	input             *bufio.Reader
	retainedLineBytes int
}

// NewStreamLineReader constructs a StreamLineReader over input, echoing prompts
// to output. It keeps a little more than maxLineLength bytes of each line so the
// session can detect and report truncation; a non-positive maxLineLength keeps
// up to one mebibyte.
func NewStreamLineReader(input io.Reader, output io.Writer, maxLineLength int) *StreamLineReader {
	if input == nil {
		input = eofReader{}
	}
	if output == nil {
		output = io.Discard
	}
	retainedLineBytes := defaultStreamRetainedLineSizeConstant
	if maxLineLength > 0 {
		retainedLineBytes = maxLineLength + utf8.UTFMax
	}
	return &StreamLineReader{
		output:            output,
		input:             bufio.NewReaderSize(input, streamReaderBufferSizeConstant),
		retainedLineBytes: retainedLineBytes,
	}
}

// ReadLine prints prompt and returns the next line without its line ending.
func (reader *StreamLineReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(reader.output, prompt)

	var lineBytes []byte
	for {
		fragment, fragmentContinues, readError := reader.input.ReadLine()
		if readError != nil {
			if errors.Is(readError, io.EOF) && len(lineBytes) > 0 {
				return string(lineBytes), nil
			}
			return "", readError
		}
		if remainingCapacity := reader.retainedLineBytes - len(lineBytes); remainingCapacity > 0 {
			lineBytes = append(lineBytes, fragment[:min(remainingCapacity, len(fragment))]...)
		}
		if !fragmentContinues {
			return string(lineBytes), nil
		}
	}
}

// Close is a no-op; the input stream belongs to the caller.
func (reader *StreamLineReader) Close() error {
	return nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}
