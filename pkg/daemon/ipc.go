// Package daemon exposes the running bar on a Unix domain socket so that
// scripts and window-manager keybindings can issue the same commands the
// bar's buttons do.
package daemon

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"
)

// connTimeout bounds a single request/response exchange.
const connTimeout = 5 * time.Second

// IPCHandler processes incoming IPC commands.
type IPCHandler interface {
	HandleCommand(ctx context.Context, cmd string, args []string) (string, error)
}

// IPCServer listens on a Unix domain socket for line-based text commands
// and returns JSON responses.
//
// Protocol:
//   - Client sends a single line: COMMAND [arg1] [arg2] ...
//   - Server responds with a JSON line followed by a newline.
//   - Errors are returned as {"error": "..."}.
type IPCServer struct {
	socketPath string
	handler    IPCHandler
	logger     *slog.Logger
	listener   net.Listener
	wg         sync.WaitGroup
	done       chan struct{}
	stopOnce   sync.Once
}

// NewIPCServer creates an IPC server that will listen on socketPath and
// dispatch commands to handler. A nil logger discards output.
func NewIPCServer(socketPath string, handler IPCHandler, logger *slog.Logger) *IPCServer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &IPCServer{
		socketPath: socketPath,
		handler:    handler,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start begins listening for connections on the Unix socket. The socket file
// is created with mode 0600. Any existing socket file at the path is
// removed first.
func (s *IPCServer) Start() error {
	os.Remove(s.socketPath)

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.socketPath, err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		ln.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}
	s.listener = ln

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info("control socket listening", "path", s.socketPath)
	return nil
}

// Stop closes the listener, waits for active connections to finish, and
// removes the socket file. It is safe to call more than once.
func (s *IPCServer) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.socketPath)
	})
}

// SocketPath returns the path the server listens on.
func (s *IPCServer) SocketPath() string {
	return s.socketPath
}

func (s *IPCServer) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				s.logger.Debug("accept failed", "error", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// handleConn reads one line, dispatches it, and writes the response.
func (s *IPCServer) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(connTimeout))

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		return
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return
	}

	cmd, args := parseIPCCommand(line)

	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	response, err := s.handler.HandleCommand(ctx, cmd, args)
	if err != nil {
		s.logger.Debug("control command rejected", "command", cmd, "error", err)
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintf(conn, "%s\n", data)
		return
	}

	// Compact the JSON response to a single line for the line-based protocol.
	// If compaction fails (response is not JSON), send as-is.
	if compacted, err := compactJSON(response); err == nil {
		response = compacted
	}
	fmt.Fprintf(conn, "%s\n", response)
}

// parseIPCCommand splits a line into an upper-cased command name and its
// positional arguments.
//
//	FOCUS 3          -> cmd="FOCUS", args=["3"]
//	mute on          -> cmd="MUTE", args=["on"]
//	STATUS           -> cmd="STATUS", args=[]
func parseIPCCommand(line string) (string, []string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil
	}
	return strings.ToUpper(parts[0]), parts[1:]
}

// IPCClient connects to a running bar via its Unix socket.
type IPCClient struct {
	socketPath string
}

// NewIPCClient creates a client for the socket at socketPath.
func NewIPCClient(socketPath string) *IPCClient {
	return &IPCClient{socketPath: socketPath}
}

// SendCommand sends a text command and returns the response line. Each call
// opens a new connection.
func (c *IPCClient) SendCommand(cmd string) (string, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, connTimeout)
	if err != nil {
		return "", fmt.Errorf("connect to qqbar: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(connTimeout))

	if _, err := fmt.Fprintf(conn, "%s\n", cmd); err != nil {
		return "", fmt.Errorf("send command: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}
		return "", fmt.Errorf("empty response from qqbar")
	}
	return scanner.Text(), nil
}

// compactJSON removes whitespace from JSON to produce a single-line string
// suitable for line-based IPC transport.
func compactJSON(s string) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
