package supervisor

import (
	"bufio"
	"io"
	"sync"

	"go.uber.org/zap"
)

// PumpLines reads r line by line until EOF, forwarding every non-empty line
// to logger with a "stream" field set to the given stream name (stdout or
// stderr). It is the finite,
// non-restartable sequence the design notes describe: it terminates on EOF
// and is never restarted, so the caller must join it (via wg) before
// attributing any further output to a new child.
func PumpLines(r io.Reader, logger *zap.Logger, stream string, wg *sync.WaitGroup) {
	defer wg.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		logger.Info(line, zap.String("stream", stream))
	}
}
