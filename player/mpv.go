package player

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/backdrop-cli/backdrop/constant"
	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/log"
	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/playback"
	"github.com/spf13/viper"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

var errNotRunning = errors.New("mpv is not running")

// MPV is a media element backed by an mpv process controlled through JSON-IPC.
// The process is launched on first use and kept open on the last frame, never looping.
type MPV struct {
	// Root is prepended to absolute media paths, so table URIs such as
	// /videos/clip.mp4 resolve inside the asset directory.
	Root string

	proc    atomic.Pointer[process]
	mu      sync.Mutex // serialises IPC round trips
	launch  sync.Mutex
	current atomic.Value
}

// process is one launched mpv instance. It is never mutated after being published.
type process struct {
	socket string
	cmd    *exec.Cmd
	exited chan struct{}
}

// NewMPV creates an MPV element. Nothing is started until it is used.
func NewMPV() *MPV {
	return &MPV{Root: viper.GetString(key.ServerAssets)}
}

// Play loads the variant into mpv, replacing whatever was loaded before.
// The outcome is reported to listeners as Started or Errored.
func (m *MPV) Play(ctx context.Context, variant media.Variant) error {
	target, err := sanitizeMediaTarget(variant.URI, m.Root)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if err := m.ensure(ctx); err != nil {
		return err
	}

	m.current.Store(variant.URI)
	_, err = m.sendCommand("loadfile", target, "replace")
	return err
}

// Pause suspends playback, keeping the current frame on screen.
func (m *MPV) Pause() error {
	if !m.running() {
		return errNotRunning
	}
	_, err := m.sendCommand("set_property", "pause", true)
	return err
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	if !m.running() {
		return errNotRunning
	}
	_, err := m.sendCommand("seek", seconds, "absolute+exact")
	return err
}

// Listen subscribes fn to playback events, launching mpv if needed.
func (m *MPV) Listen(fn func(playback.Event)) (playback.Listener, error) {
	if err := m.ensure(context.Background()); err != nil {
		return nil, err
	}

	listener := NewEventListener(m.Socket(), m.Current, fn)
	if err := listener.Start(); err != nil {
		return nil, err
	}

	return listener, nil
}

// Current returns the URI of the variant most recently loaded.
func (m *MPV) Current() string {
	uri, _ := m.current.Load().(string)
	return uri
}

// Wait returns a channel that is closed when the mpv process exits.
// Before the first launch it returns nil, which never becomes ready.
func (m *MPV) Wait() <-chan struct{} {
	if proc := m.proc.Load(); proc != nil {
		return proc.exited
	}
	return nil
}

// Socket returns the IPC socket path, or an empty string before launch.
func (m *MPV) Socket() string {
	if proc := m.proc.Load(); proc != nil {
		return proc.socket
	}
	return ""
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	proc := m.proc.Load()
	if !proc.alive() {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand("quit")

	select {
	case <-proc.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(proc.cmd)
	}

	_ = os.Remove(proc.socket)
	return nil
}

func (m *MPV) running() bool {
	return m.proc.Load().alive()
}

func (p *process) alive() bool {
	if p == nil {
		return false
	}

	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// ensure launches mpv idle with a window, unless it is already running.
func (m *MPV) ensure(ctx context.Context) error {
	m.launch.Lock()
	defer m.launch.Unlock()

	if m.running() {
		return nil
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	socket := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Backdrop, randomBytes))

	cmd := exec.Command("mpv", mpvArgs(socket)...)

	// Detach from parent process group to prevent cascading shell panics.
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	proc := &process{socket: socket, cmd: cmd, exited: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(proc.exited)
	}()
	m.proc.Store(proc)

	if err := waitForSocket(ctx, proc); err != nil {
		select {
		case <-proc.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// mpvArgs keeps mpv open and paused on the final frame instead of looping or exiting.
// Everything else is left to the user's mpv.conf.
func mpvArgs(socketPath string) []string {
	return []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		fmt.Sprintf("--title=%s", constant.Backdrop),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=always",
		"--loop-file=no",
		"--fullscreen",
		"--osc=no",
		"--mute=yes",
	}
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func waitForSocket(ctx context.Context, proc *process) error {
	for i := 0; i < socketWaitRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-proc.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}

		conn, err := net.Dial("unix", proc.socket)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", proc.socket, socketWaitRetries)
}

// sanitizeMediaTarget validates that a URI is safe to pass to mpv and maps
// absolute paths into root when one is set.
func sanitizeMediaTarget(link, root string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	clean := filepath.Clean(l)
	if root != "" && filepath.IsAbs(clean) {
		return filepath.Join(root, clean), nil
	}
	return clean, nil
}
