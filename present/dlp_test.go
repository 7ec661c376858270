package present

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"dotcloud/engine"
)

type fakePort struct {
	reply   bytes.Buffer
	written bytes.Buffer
	failW   bool
	closed  bool
}

func (p *fakePort) Read(b []byte) (int, error) { return p.reply.Read(b) }

func (p *fakePort) Write(b []byte) (int, error) {
	if p.failW {
		return 0, errors.New("port gone")
	}
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestUnsetCommand(t *testing.T) {
	assert.Equal(t, []byte("Q"), unsetCommand("1"))
	assert.Equal(t, []byte("QWERTYUI"), unsetCommand("12345678"))
	assert.Equal(t, []byte("R9"), unsetCommand("49"))
}

func TestDLPHandshake(t *testing.T) {
	port := &fakePort{}
	port.reply.WriteByte(dlpPong)

	d, err := newDLPIO8G(port, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []byte{dlpPing, dlpBinary}, port.written.Bytes())
	require.NoError(t, d.Close())
	assert.True(t, port.closed)
}

func TestDLPHandshakeNoPong(t *testing.T) {
	port := &fakePort{}
	port.reply.WriteByte('x')
	_, err := newDLPIO8G(port, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, errNoPong)
}

func TestDLPPhaseLines(t *testing.T) {
	port := &fakePort{}
	d := &DLPIO8G{port: port, log: zaptest.NewLogger(t)}

	for _, p := range []engine.Phase{engine.PhaseDots, engine.PhaseComposite, engine.PhaseChoices, engine.PhaseColorProbe} {
		d.Onset(p)
		d.Offset(p)
	}
	assert.Equal(t, "1Q2W3E4R", port.written.String())
}

func TestDLPWriteErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := &DLPIO8G{port: &fakePort{failW: true}, log: zap.New(core)}

	d.Onset(engine.PhaseDots)
	d.Offset(engine.PhaseDots)
	assert.Equal(t, 1, logs.FilterMessage("dlp set").Len())
	assert.Equal(t, 1, logs.FilterMessage("dlp unset").Len())
}
