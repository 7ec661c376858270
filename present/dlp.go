package present

import (
	"errors"
	"io"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"dotcloud/engine"
)

const (
	dlpPing   = 0x27
	dlpPong   = 'Q'
	dlpBinary = 0x5C
)

var errNoPong = errors.New("device did not respond to ping correctly")

// DLPIO8G drives the output lines of a DLP-IO8-G box. Each trial phase
// holds one line high while it is on screen.
type DLPIO8G struct {
	port io.ReadWriteCloser
	log  *zap.Logger
}

func OpenDLPIO8G(device string, baudrate int, log *zap.Logger) (*DLPIO8G, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baudrate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	d, err := newDLPIO8G(port, log)
	if err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

func newDLPIO8G(port io.ReadWriteCloser, log *zap.Logger) (*DLPIO8G, error) {
	d := &DLPIO8G{port: port, log: log}
	if !d.Ping() {
		return nil, errNoPong
	}
	if _, err := port.Write([]byte{dlpBinary}); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DLPIO8G) Close() error {
	return d.port.Close()
}

func (d *DLPIO8G) Ping() bool {
	if _, err := d.port.Write([]byte{dlpPing}); err != nil {
		return false
	}
	buf := make([]byte, 1)
	n, err := d.port.Read(buf)
	return err == nil && n == 1 && buf[0] == dlpPong
}

// Set raises the lines named by digits '1'..'8'.
func (d *DLPIO8G) Set(lines string) {
	if _, err := d.port.Write([]byte(lines)); err != nil {
		d.log.Warn("dlp set", zap.String("lines", lines), zap.Error(err))
	}
}

func (d *DLPIO8G) Unset(lines string) {
	if _, err := d.port.Write(unsetCommand(lines)); err != nil {
		d.log.Warn("dlp unset", zap.String("lines", lines), zap.Error(err))
	}
}

// unsetCommand maps line digits to the keys that lower them.
func unsetCommand(lines string) []byte {
	const lower = "QWERTYUI"
	cmd := []byte(lines)
	for i, c := range cmd {
		if c >= '1' && c <= '8' {
			cmd[i] = lower[c-'1']
		}
	}
	return cmd
}

var phaseLines = map[engine.Phase]string{
	engine.PhaseDots:       "1",
	engine.PhaseComposite:  "2",
	engine.PhaseChoices:    "3",
	engine.PhaseColorProbe: "4",
}

func (d *DLPIO8G) Onset(p engine.Phase) {
	if lines, ok := phaseLines[p]; ok {
		d.Set(lines)
	}
}

func (d *DLPIO8G) Offset(p engine.Phase) {
	if lines, ok := phaseLines[p]; ok {
		d.Unset(lines)
	}
}
