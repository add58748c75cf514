package supervisor

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"unicode/utf8"

	"github.com/viant/gpuslot/internal/clock"
	"github.com/viant/gpuslot/model/slot"
)

const (
	readBufferSize = 64 * 1024
	// maxLineSize bounds a single log entry, longer lines are split on a rune
	// boundary
	maxLineSize = 1024 * 1024
)

// collect appends worker output to the slot log line by line until end of
// stream; a partial final line is kept. Output read after the slot moved on
// to another task is drained and discarded.
func (s *Service) collect(slotID int, taskID string, output io.ReadCloser) {
	defer output.Close()
	reader := bufio.NewReaderSize(output, readBufferSize)
	var line []byte
	split := false
	for {
		chunk, err := reader.ReadSlice('\n')
		line = append(line, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			for len(line) > maxLineSize {
				cut := runeBoundary(line, maxLineSize)
				s.appendLine(slotID, taskID, line[:cut])
				line = append(line[:0], line[cut:]...)
				split = true
			}
			continue
		}
		text := bytes.TrimRight(line, "\r\n")
		for len(text) > maxLineSize {
			cut := runeBoundary(text, maxLineSize)
			s.appendLine(slotID, taskID, text[:cut])
			text = text[cut:]
			split = true
		}
		if len(text) > 0 || (!split && len(line) > 0) {
			s.appendLine(slotID, taskID, text)
		}
		line, split = line[:0], false
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
			s.logger.Warn("failed to read worker output", "slot", slotID, "task", taskID, "error", err)
		}
		return
	}
}

func (s *Service) appendLine(slotID int, taskID string, text []byte) {
	s.slots.AppendTaskEntry(slotID, taskID, slot.LogEntry{Time: clock.Now(), Text: string(text)})
}

// runeBoundary returns the largest cut <= n that does not split a UTF-8
// sequence, len(data) must be greater than n
func runeBoundary(data []byte, n int) int {
	for cut := n; cut > 0 && cut > n-utf8.UTFMax; cut-- {
		if utf8.RuneStart(data[cut]) {
			return cut
		}
	}
	return n
}
