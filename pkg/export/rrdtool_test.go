package export

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"time"
)

type discardWriteCloser struct{ io.Writer }

func (discardWriteCloser) Close() error { return nil }

// newFakeRrdTool builds a RrdTool whose stdin is discarded and whose
// stdout replays a canned response, the same substitute-the-transport
// trick the original's own test module uses in place of a real
// subprocess.
func newFakeRrdTool(output string) *RrdTool {
	return &RrdTool{
		stdin:  discardWriteCloser{io.Discard},
		stdout: bufio.NewReader(strings.NewReader(output)),
	}
}

func TestReadAnswerOk(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("OK u:0,01 s:0,02 r:8,05\n"))
	if err := readAnswer(r, nil); err != nil {
		t.Fatalf("readAnswer: %v", err)
	}
}

func TestReadAnswerError(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("ERROR: you must define at least one Round Robin Archive\n"))
	err := readAnswer(r, nil)
	if err == nil {
		t.Fatalf("expected an error")
	}
	want := "rrdtool: you must define at least one Round Robin Archive"
	if err.Error() != want {
		t.Errorf("err = %q, want %q", err.Error(), want)
	}
}

func TestReadAnswerCapturesPrecedingLines(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("481x155\nOK u:0,07 s:0,01 r:0,06\n"))
	var lines []string
	if err := readAnswer(r, &lines); err != nil {
		t.Fatalf("readAnswer: %v", err)
	}
	if len(lines) != 1 || lines[0] != "481x155" {
		t.Errorf("lines = %v, want [\"481x155\"]", lines)
	}
}

func TestParseGraphSize(t *testing.T) {
	width, height, err := parseGraphSize("481x155\n")
	if err != nil {
		t.Fatalf("parseGraphSize: %v", err)
	}
	if width != 481 || height != 155 {
		t.Errorf("got (%d, %d), want (481, 155)", width, height)
	}
}

func TestParseGraphSizeRejectsMalformed(t *testing.T) {
	if _, _, err := parseGraphSize("1x2x3\n"); err == nil {
		t.Fatalf("expected an error for a malformed size")
	}
}

func TestRrdToolCreateSendsWellFormedCommand(t *testing.T) {
	var sent strings.Builder
	tool := &RrdTool{
		stdin:  discardWriteCloser{&sent},
		stdout: bufio.NewReader(strings.NewReader("OK\n")),
	}
	err := tool.Create("db.rrd", []string{"DS:mem_rss:GAUGE:20:0:U"}, time.Unix(1000, 0), 10*time.Second, 600)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := "create db.rrd --start=1000 --step=10 DS:mem_rss:GAUGE:20:0:U RRA:AVERAGE:0.5:1:600\n"
	if sent.String() != want {
		t.Errorf("sent %q, want %q", sent.String(), want)
	}
}

func TestRrdToolUpdatePropagatesError(t *testing.T) {
	tool := newFakeRrdTool("ERROR: unknown database\n")
	err := tool.Update("db.rrd", []int64{42}, time.Unix(1010, 0))
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestRrdToolGraphReturnsSize(t *testing.T) {
	tool := newFakeRrdTool("481x155\nOK\n")
	width, height, err := tool.Graph("out.png", time.Unix(0, 0), time.Unix(100, 0), []string{"DEF:v0=db.rrd:mem_rss:AVERAGE"}, "mem rss")
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if width != 481 || height != 155 {
		t.Errorf("got (%d, %d), want (481, 155)", width, height)
	}
}
