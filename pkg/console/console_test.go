package console

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuDuda/settings-fuzz/pkg/log"
)

// fakePort replays queued read chunks and records writes. An empty queue
// behaves like a serial read timeout (0, nil).
type fakePort struct {
	reads      [][]byte
	readErr    error
	writes     [][]byte
	writeErr   error
	shortWrite bool
	timeout    time.Duration
	timeoutErr error
	resetCalls int
	closeCalls int
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, p.readErr
	}
	n := copy(b, p.reads[0])
	if n < len(p.reads[0]) {
		p.reads[0] = p.reads[0][n:]
	} else {
		p.reads = p.reads[1:]
	}
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.writes = append(p.writes, append([]byte(nil), b...))
	if p.shortWrite {
		return len(b) - 1, nil
	}
	return len(b), nil
}

func (p *fakePort) SetReadTimeout(d time.Duration) error {
	p.timeout = d
	return p.timeoutErr
}

func (p *fakePort) ResetInputBuffer() error {
	p.resetCalls++
	p.reads = nil
	return nil
}

func (p *fakePort) Close() error {
	p.closeCalls++
	return nil
}

type recordingLogger struct {
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) { r.events = append(r.events, e) }

func newTestConsole(t *testing.T, port *fakePort) *Console {
	t.Helper()
	c, err := New(port, DefaultConfig())
	require.NoError(t, err)
	return c
}

func TestNewAppliesReadTimeout(t *testing.T) {
	port := &fakePort{}
	_, err := New(port, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, port.timeout)
}

func TestNewReadTimeoutError(t *testing.T) {
	port := &fakePort{timeoutErr: errors.New("ioctl failed")}
	_, err := New(port, DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read timeout")
}

func TestSendWritesSingleTerminatedLine(t *testing.T) {
	port := &fakePort{}
	c := newTestConsole(t, port)

	require.NoError(t, c.Send(WriteSetting("mt/123456", "0042")))

	require.Len(t, port.writes, 1)
	assert.Equal(t, "settings write mt/123456 0042\n", string(port.writes[0]))
}

func TestSendErrors(t *testing.T) {
	t.Run("write error", func(t *testing.T) {
		port := &fakePort{writeErr: errors.New("device gone")}
		err := newTestConsole(t, port).Send(ListSettings())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "device gone")
	})

	t.Run("short write", func(t *testing.T) {
		port := &fakePort{shortWrite: true}
		err := newTestConsole(t, port).Send(ListSettings())
		assert.ErrorIs(t, err, ErrShortWrite)
	})

	t.Run("closed", func(t *testing.T) {
		port := &fakePort{}
		c := newTestConsole(t, port)
		require.NoError(t, c.Close())
		assert.ErrorIs(t, c.Send(ListSettings()), ErrClosed)
		assert.Empty(t, port.writes)
	})
}

func TestReadLines(t *testing.T) {
	tests := []struct {
		name  string
		reads []string
		want  []string
	}{
		{"silent device", nil, nil},
		{"single line", []string{"ok\n"}, []string{"ok"}},
		{"crlf", []string{"uart:~$ settings list\r\nmt/1\r\n"}, []string{"uart:~$ settings list", "mt/1"}},
		{"split across reads", []string{"mt/12", "3456=1\nmt/", "9\n"}, []string{"mt/123456=1", "mt/9"}},
		{"trailing partial line", []string{"done\nuart:~$ "}, []string{"done", "uart:~$ "}},
		{"empty lines kept", []string{"\n\nx\n"}, []string{"", "", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := &fakePort{}
			for _, r := range tt.reads {
				port.reads = append(port.reads, []byte(r))
			}
			lines, err := newTestConsole(t, port).ReadLines()
			require.NoError(t, err)

			var got []string
			for _, l := range lines {
				got = append(got, string(l))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadLinesLargeOutput(t *testing.T) {
	big := make([]byte, 3*readChunkSize+17)
	for i := range big {
		big[i] = '7'
	}
	port := &fakePort{reads: [][]byte{append(big, '\n')}}

	lines, err := newTestConsole(t, port).ReadLines()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0], len(big))
}

func TestReadLinesError(t *testing.T) {
	port := &fakePort{readErr: errors.New("port unplugged")}
	_, err := newTestConsole(t, port).ReadLines()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port unplugged")
}

func TestDrainStrictStopsAtInvalidLine(t *testing.T) {
	port := &fakePort{reads: [][]byte{[]byte("good\nba\xffd\nnever\n")}}
	lines, err := newTestConsole(t, port).Drain(Strict)

	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Equal(t, []string{"good"}, lines)
}

func TestDrainLenientDropsInvalidBytes(t *testing.T) {
	port := &fakePort{reads: [][]byte{[]byte("good\nba\xffd\ntail\xe2\x82")}}
	lines, err := newTestConsole(t, port).Drain(Lenient)

	require.NoError(t, err)
	assert.Equal(t, []string{"good", "bad", "tail"}, lines)
}

func TestDrainCapturesLines(t *testing.T) {
	port := &fakePort{reads: [][]byte{[]byte("ok\nx\xffy\n")}}
	c := newTestConsole(t, port)
	rec := &recordingLogger{}
	c.SetLogger(rec, "session-1")

	_, err := c.Drain(Lenient)
	require.NoError(t, err)

	require.Len(t, rec.events, 2)
	for _, e := range rec.events {
		assert.Equal(t, "session-1", e.SessionID)
		assert.Equal(t, log.DirectionIn, e.Direction)
		assert.Equal(t, log.CategoryLine, e.Category)
		require.NotNil(t, e.Line)
	}
	assert.False(t, rec.events[0].Line.Invalid)
	assert.Nil(t, rec.events[0].Line.Raw)
	assert.True(t, rec.events[1].Line.Invalid)
	assert.Equal(t, "xy", rec.events[1].Line.Text)
	assert.Equal(t, []byte("x\xffy"), rec.events[1].Line.Raw)
}

func TestSendCapturesCommand(t *testing.T) {
	c := newTestConsole(t, &fakePort{})
	rec := &recordingLogger{}
	c.SetLogger(rec, "s")

	require.NoError(t, c.Send(FactoryReset()))

	require.Len(t, rec.events, 1)
	e := rec.events[0]
	assert.Equal(t, log.DirectionOut, e.Direction)
	require.NotNil(t, e.Command)
	assert.Equal(t, log.CommandFactoryReset, e.Command.Kind)
	assert.Equal(t, "matter device factoryreset", e.Command.Text)
}

func TestFlushAndClose(t *testing.T) {
	port := &fakePort{reads: [][]byte{[]byte("boot banner\n")}}
	c := newTestConsole(t, port)

	require.NoError(t, c.Flush())
	assert.Equal(t, 1, port.resetCalls)

	lines, err := c.ReadLines()
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, port.closeCalls)
	assert.ErrorIs(t, c.Flush(), ErrClosed)
}
