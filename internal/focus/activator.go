package focus

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
)

// compositor is the slice of Ctl the activator needs.
type compositor interface {
	Clients() ([]Client, error)
	ActiveWindow() (string, error)
	Dispatch(args string) error
}

// Activator implements the activate-program effect: focus the program's
// window when one exists, launch the program when none does.
type Activator struct {
	ctl    compositor
	logger *slog.Logger

	// Swapped in tests.
	resolveExe func(pid int) (string, error)
	launch     func(path string) error
}

func NewActivator(ctl compositor, logger *slog.Logger) *Activator {
	return &Activator{
		ctl:        ctl,
		logger:     logger,
		resolveExe: exePath,
		launch:     launchDetached,
	}
}

// Activate matches windows by resolved executable path. A window that is
// already focused is left alone; an unfocused one is brought to the
// foreground; with no window at all the program is launched fresh.
func (a *Activator) Activate(path string) error {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}

	clients, err := a.ctl.Clients()
	if err != nil {
		a.logger.Debug("focus: list windows failed", slog.String("error", err.Error()))
		clients = nil
	}

	for _, cl := range clients {
		exe, exeErr := a.resolveExe(cl.PID)
		if exeErr != nil || exe != resolved {
			continue
		}

		active, activeErr := a.ctl.ActiveWindow()
		if activeErr == nil && normalizeAddr(active) == normalizeAddr(cl.Address) {
			a.logger.Debug("focus: window already in foreground", slog.String("path", resolved))
			return nil
		}

		a.logger.Debug("focus: bringing window to foreground", slog.String("path", resolved))
		return a.ctl.Dispatch("focuswindow address:" + cl.Address)
	}

	a.logger.Debug("focus: no existing window, launching", slog.String("path", path))
	return a.launch(path)
}

// Launch starts the program detached, with no window matching. Used in
// place of Activate when compositor integration is disabled.
func Launch(path string) error {
	return launchDetached(path)
}

func launchDetached(path string) error {
	cmd := exec.Command(path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", path, err)
	}
	go cmd.Wait() // reap
	return nil
}
