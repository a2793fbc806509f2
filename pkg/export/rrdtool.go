package export

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/jesseduffield/kill"
)

// RrdTool drives an `rrdtool -` subprocess in remote-control mode: commands
// are written one per line on its stdin and answered line-by-line on
// stdout, terminated by an "OK" or "ERROR: …" status line.
type RrdTool struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// NewRrdTool spawns tool (or "rrdtool" if empty) with its working
// directory set to dir, so relative database/graph filenames land there.
func NewRrdTool(tool, dir string) (*RrdTool, error) {
	if tool == "" {
		tool = "rrdtool"
	}
	cmd := exec.Command(tool, "-")
	cmd.Dir = dir
	kill.PrepareForChildren(cmd) // the tool's own spawned helpers die with it on Kill

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("rrdtool: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("rrdtool: %w", err)
	}
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("rrdtool: %w", err)
	}
	return &RrdTool{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout)}, nil
}

// readAnswer reads response lines until the terminating "OK"/"ERROR:" tag,
// appending any preceding lines to capture when non-nil (used by `graph`
// to recover the rendered image's reported dimensions).
func (t *RrdTool) readAnswer(capture *[]string) error {
	return readAnswer(t.stdout, capture)
}

// readAnswer is the transport-agnostic core of RrdTool.readAnswer, split
// out so it can be exercised directly against a canned response buffer
// instead of a live rrdtool subprocess.
func readAnswer(r *bufio.Reader, capture *[]string) error {
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return fmt.Errorf("rrdtool: premature end of stream: %w", err)
		}
		answer := strings.TrimRight(line, "\r\n")
		tag, rest, _ := strings.Cut(answer, " ")
		switch tag {
		case "OK":
			return nil
		case "ERROR:":
			msg := strings.TrimSpace(rest)
			if msg == "" {
				msg = "no error message"
			}
			return fmt.Errorf("rrdtool: %s", msg)
		default:
			if capture != nil {
				*capture = append(*capture, answer)
			}
		}
	}
}

// Create defines a new round-robin database with one AVERAGE archive
// holding rows samples at the given step.
func (t *RrdTool) Create(dbname string, ds []string, start time.Time, interval time.Duration, rows int) error {
	step := int64(interval.Seconds())
	if _, err := fmt.Fprintf(t.stdin, "create %s --start=%d --step=%d", dbname, start.Unix(), step); err != nil {
		return fmt.Errorf("rrdtool: %w", err)
	}
	for _, d := range ds {
		if _, err := fmt.Fprintf(t.stdin, " %s", d); err != nil {
			return fmt.Errorf("rrdtool: %w", err)
		}
	}
	if _, err := fmt.Fprintf(t.stdin, " RRA:AVERAGE:0.5:1:%d\n", rows); err != nil {
		return fmt.Errorf("rrdtool: %w", err)
	}
	return t.readAnswer(nil)
}

// Update appends one sample of values to dbname at timestamp.
func (t *RrdTool) Update(dbname string, values []int64, timestamp time.Time) error {
	if _, err := fmt.Fprintf(t.stdin, "update %s %d", dbname, timestamp.Unix()); err != nil {
		return fmt.Errorf("rrdtool: %w", err)
	}
	for _, v := range values {
		if _, err := fmt.Fprintf(t.stdin, ":%d", v); err != nil {
			return fmt.Errorf("rrdtool: %w", err)
		}
	}
	if _, err := fmt.Fprintln(t.stdin); err != nil {
		return fmt.Errorf("rrdtool: %w", err)
	}
	return t.readAnswer(nil)
}

// Graph renders filename from defs between start and end, returning the
// image's reported (width, height).
func (t *RrdTool) Graph(filename string, start, end time.Time, defs []string, title string) (width, height int, err error) {
	if _, err := fmt.Fprintf(t.stdin, "graph %s --start=%d --end=%d", filename, start.Unix(), end.Unix()); err != nil {
		return 0, 0, fmt.Errorf("rrdtool: %w", err)
	}
	if title != "" {
		if _, err := fmt.Fprintf(t.stdin, " --title=%q", title); err != nil {
			return 0, 0, fmt.Errorf("rrdtool: %w", err)
		}
	}
	for _, d := range defs {
		if _, err := fmt.Fprintf(t.stdin, " %s", d); err != nil {
			return 0, 0, fmt.Errorf("rrdtool: %w", err)
		}
	}
	if _, err := fmt.Fprintln(t.stdin); err != nil {
		return 0, 0, fmt.Errorf("rrdtool: %w", err)
	}

	var lines []string
	if err := t.readAnswer(&lines); err != nil {
		return 0, 0, err
	}
	if len(lines) == 0 {
		return 0, 0, fmt.Errorf("rrdtool: missing graph size in response")
	}
	return parseGraphSize(lines[0])
}

func parseGraphSize(line string) (width, height int, err error) {
	size := strings.TrimSpace(line)
	x, y, ok := strings.Cut(size, "x")
	if !ok {
		return 0, 0, fmt.Errorf("rrdtool: invalid graph size %q", size)
	}
	width, err = strconv.Atoi(x)
	if err != nil {
		return 0, 0, fmt.Errorf("rrdtool: invalid graph size %q", size)
	}
	height, err = strconv.Atoi(y)
	if err != nil {
		return 0, 0, fmt.Errorf("rrdtool: invalid graph size %q", size)
	}
	return width, height, nil
}

// Close tells the subprocess to quit and waits for it to exit.
func (t *RrdTool) Close() error {
	if _, err := fmt.Fprintln(t.stdin, "quit"); err != nil {
		return fmt.Errorf("rrdtool: %w", err)
	}
	if err := t.cmd.Wait(); err != nil {
		return fmt.Errorf("rrdtool: %w", err)
	}
	return nil
}

// Kill terminates the subprocess (and its process group) without waiting
// for a graceful "quit", for use when shutdown can't afford to wait on an
// unresponsive tool.
func (t *RrdTool) Kill() error {
	return kill.Kill(t.cmd)
}
