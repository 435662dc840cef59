package utils

import (
	"io"
	"os"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes that several children of a parallel wave
// and the shell's own diagnostics make to one destination. Each write is
// flushed before the lock is released when the destination buffers.
type FlushingWriter struct {
	destination io.Writer
	mutex       sync.Mutex
}

// NewFlushingWriter wraps destination. Wrapping a FlushingWriter returns it
// unchanged so every holder shares one lock.
func NewFlushingWriter(destination io.Writer) io.Writer {
	if destination == nil {
		return nil
	}
	if existingWriter, alreadyWrapped := destination.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}
	return &FlushingWriter{destination: destination}
}

// NewSharedStreamWriter prepares destination for use as a child process
// stream shared across concurrently running commands. Operating system files
// are returned as is so children inherit the descriptor directly; any other
// writer is copied into by one goroutine per child and gets a FlushingWriter.
func NewSharedStreamWriter(destination io.Writer) io.Writer {
	if _, isFile := destination.(*os.File); isFile {
		return destination
	}
	return NewFlushingWriter(destination)
}

// Write forwards data to the destination under the writer's lock.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.destination == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if bufferedDestination, buffers := flushingWriter.destination.(flusher); buffers {
		return bytesWritten, bufferedDestination.Flush()
	}
	return bytesWritten, nil
}

// SharedStreamReader serializes reads that the stdin copiers of concurrently
// running children make from one non-file input.
type SharedStreamReader struct {
	source io.Reader
	mutex  sync.Mutex
}

// NewSharedStreamReader prepares source for use as the standard input of
// concurrently running children. Operating system files and nil are returned
// as is.
func NewSharedStreamReader(source io.Reader) io.Reader {
	switch typedSource := source.(type) {
	case nil:
		return nil
	case *os.File, *SharedStreamReader:
		return typedSource
	}
	return &SharedStreamReader{source: source}
}

// Read reads from the source under the reader's lock.
func (sharedReader *SharedStreamReader) Read(buffer []byte) (int, error) {
	sharedReader.mutex.Lock()
	defer sharedReader.mutex.Unlock()
	return sharedReader.source.Read(buffer)
}
