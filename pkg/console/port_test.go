package console

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func withOpenPort(t *testing.T, fn func(path string, mode *serial.Mode) (Port, error)) {
	t.Helper()
	orig := openPort
	openPort = fn
	t.Cleanup(func() { openPort = orig })
}

func TestOpenUsesShellLineSettings(t *testing.T) {
	port := &fakePort{}
	var gotPath string
	var gotMode *serial.Mode
	withOpenPort(t, func(path string, mode *serial.Mode) (Port, error) {
		gotPath, gotMode = path, mode
		return port, nil
	})

	c, err := Open("/dev/ttyACM0", DefaultConfig())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "/dev/ttyACM0", gotPath)
	assert.Equal(t, "/dev/ttyACM0", c.Path())
	require.NotNil(t, gotMode)
	assert.Equal(t, 115200, gotMode.BaudRate)
	assert.Equal(t, 8, gotMode.DataBits)
	assert.Equal(t, serial.NoParity, gotMode.Parity)
	assert.Equal(t, serial.OneStopBit, gotMode.StopBits)
	assert.Equal(t, 150*time.Millisecond, port.timeout)
}

func TestOpenFailure(t *testing.T) {
	withOpenPort(t, func(string, *serial.Mode) (Port, error) {
		return nil, errors.New("no such device")
	})

	c, err := Open("/dev/ttyUSB9", DefaultConfig())
	assert.Nil(t, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/dev/ttyUSB9")
	assert.Contains(t, err.Error(), "no such device")
}

func TestOpenClosesPortWhenConfigureFails(t *testing.T) {
	port := &fakePort{timeoutErr: errors.New("unsupported")}
	withOpenPort(t, func(string, *serial.Mode) (Port, error) { return port, nil })

	_, err := Open("/dev/ttyACM0", DefaultConfig())
	require.Error(t, err)
	assert.Equal(t, 1, port.closeCalls)
}

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open("/dev/settings-fuzz-does-not-exist", DefaultConfig())
	assert.Error(t, err)
}
