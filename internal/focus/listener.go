package focus

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// windowResolver turns a window address into the owning process's
// executable path. *Ctl implements it.
type windowResolver interface {
	ProcessPath(addr string) (string, error)
}

// Listener streams foreground-window changes from the compositor's event
// socket and reports each one as a process path.
type Listener struct {
	resolver windowResolver
	logger   *slog.Logger
	onChange func(processPath string)
}

func NewListener(resolver windowResolver, logger *slog.Logger, onChange func(string)) *Listener {
	return &Listener{resolver: resolver, logger: logger, onChange: onChange}
}

// Run reads event lines until ctx is cancelled or the socket fails.
func (l *Listener) Run(ctx context.Context) error {
	conn, err := dial(eventSocket)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Closing the socket is the only way to unblock the reader.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	l.logger.Info("focus: listening for window changes")

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read event socket: %w", err)
		}
		l.handleLine(strings.TrimSuffix(line, "\n"))
	}
}

func (l *Listener) handleLine(line string) {
	evType, data, ok := strings.Cut(line, ">>")
	if !ok || evType != "activewindowv2" {
		return
	}

	addr := strings.TrimSpace(data)
	if addr == "" || addr == "," {
		return
	}

	path, err := l.resolver.ProcessPath(addr)
	if err != nil {
		l.logger.Debug("focus: resolve window failed",
			slog.String("address", addr),
			slog.String("error", err.Error()))
		return
	}

	l.logger.Debug("focus: foreground process", slog.String("path", path))
	l.onChange(path)
}
