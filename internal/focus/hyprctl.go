// Package focus tracks the foreground process through the Hyprland
// compositor and activates program windows.
package focus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
)

// ErrNotRunning indicates the compositor's IPC sockets cannot be located.
var ErrNotRunning = errors.New("hyprland might not be running")

type socketKind int

const (
	ctlSocket socketKind = iota
	eventSocket
)

func socketPath(kind socketKind) (string, error) {
	signature := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if signature == "" {
		return "", fmt.Errorf("HYPRLAND_INSTANCE_SIGNATURE is not set: %w", ErrNotRunning)
	}

	switch kind {
	case ctlSocket:
		return fmt.Sprintf("/tmp/hypr/%s/.socket.sock", signature), nil
	case eventSocket:
		return fmt.Sprintf("/tmp/hypr/%s/.socket2.sock", signature), nil
	}
	return "", fmt.Errorf("unknown socket kind %d", kind)
}

func dial(kind socketKind) (net.Conn, error) {
	path, err := socketPath(kind)
	if err != nil {
		return nil, err
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}
	return conn, nil
}

// Client is one managed window as reported by the compositor.
type Client struct {
	Address string `json:"address"`
	PID     int    `json:"pid"`
	Class   string `json:"class"`
}

// Ctl issues requests over the compositor's command socket.
type Ctl struct{}

func (c *Ctl) request(request, args string) ([]byte, error) {
	conn, err := dial(ctlSocket)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := fmt.Fprintf(conn, "%s/%s", args, request); err != nil {
		return nil, fmt.Errorf("write to hyprctl socket: %w", err)
	}
	out, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read from hyprctl socket: %w", err)
	}
	return out, nil
}

// Clients lists all managed windows.
func (c *Ctl) Clients() ([]Client, error) {
	out, err := c.request("clients", "j")
	if err != nil {
		return nil, err
	}
	var clients []Client
	if err := json.Unmarshal(out, &clients); err != nil {
		return nil, fmt.Errorf("unmarshal clients: %w", err)
	}
	return clients, nil
}

// ActiveWindow returns the address of the focused window, empty when none.
func (c *Ctl) ActiveWindow() (string, error) {
	out, err := c.request("activewindow", "j")
	if err != nil {
		return "", err
	}
	var w struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(out, &w); err != nil {
		return "", fmt.Errorf("unmarshal activewindow: %w", err)
	}
	return w.Address, nil
}

// Dispatch runs a compositor dispatcher such as "focuswindow address:...".
func (c *Ctl) Dispatch(args string) error {
	out, err := c.request("dispatch "+args, "")
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(out)) != "ok" {
		return fmt.Errorf("hyprctl dispatch: %s", out)
	}
	return nil
}

// ProcessPath resolves a window address to its owning process's executable
// path.
func (c *Ctl) ProcessPath(addr string) (string, error) {
	clients, err := c.Clients()
	if err != nil {
		return "", err
	}
	want := normalizeAddr(addr)
	for _, cl := range clients {
		if normalizeAddr(cl.Address) == want {
			return exePath(cl.PID)
		}
	}
	return "", fmt.Errorf("window %s not found", addr)
}

// normalizeAddr strips the 0x prefix: event-socket addresses come bare while
// request-socket addresses are prefixed.
func normalizeAddr(addr string) string {
	return strings.TrimPrefix(strings.TrimSpace(addr), "0x")
}

func exePath(pid int) (string, error) {
	path, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		return "", fmt.Errorf("resolve process %d: %w", pid, err)
	}
	return path, nil
}
