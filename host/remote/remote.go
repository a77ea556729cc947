// Package remote drives a board's steer link from a PC, standing in for the
// steering remote on a bench.
package remote

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"

	"hugs/host/serial"
	"hugs/protocol"
)

// Remote represents a connection to a board's steer (or bluetooth) link
type Remote struct {
	port serial.Port

	mu    sync.Mutex
	speed int16
	horn  bool
	led   uint8

	// Pending one-shot frames, sent ahead of the next speed frame
	queue []protocol.Frame

	stats     Stats
	connected bool
}

// Stats counts link traffic in both directions
type Stats struct {
	Sent     uint64
	Received uint64
	Dropped  uint64 // Bytes skipped while resynchronizing
}

// NewRemote creates a new Remote instance (not yet connected)
func NewRemote() *Remote {
	return &Remote{}
}

// Connect opens the serial port of device with the stock link settings
func (r *Remote) Connect(device string) error {
	return r.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens the serial port with a custom config
func (r *Remote) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	r.Attach(port)
	return nil
}

// Attach uses an already open port
func (r *Remote) Attach(port serial.Port) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.port = port
	r.connected = true
}

// Close closes the connection
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.connected {
		return nil
	}
	r.connected = false
	return r.port.Close()
}

// IsConnected returns whether the port is open
func (r *Remote) IsConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}

// SetSpeed sets the speed streamed on every tick
func (r *Remote) SetSpeed(v int16) {
	r.mu.Lock()
	r.speed = v
	r.mu.Unlock()
}

// Speed returns the speed currently streamed
func (r *Remote) Speed() int16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.speed
}

// Horn queues a horn frame
func (r *Remote) Horn(on bool) {
	r.mu.Lock()
	r.horn = on
	f := protocol.Frame{Cmd: protocol.CmdHorn}
	if on {
		f.Flags = protocol.FlagHorn
	}
	r.queue = append(r.queue, f)
	r.mu.Unlock()
}

// LED queues an LED program selection
func (r *Remote) LED(program uint8) {
	r.mu.Lock()
	r.led = program
	r.queue = append(r.queue, protocol.Frame{Cmd: protocol.CmdLED, Value: int16(program)})
	r.mu.Unlock()
}

// HornOn returns the last horn state requested
func (r *Remote) HornOn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.horn
}

// LEDProgram returns the last LED program requested
func (r *Remote) LEDProgram() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.led
}

// Stats returns a copy of the traffic counters
func (r *Remote) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Tick writes the queued frames, then one speed frame
func (r *Remote) Tick() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.connected {
		return errors.New("not connected")
	}

	frames := append(r.queue, protocol.Frame{Cmd: protocol.CmdSpeed, Value: r.speed})
	r.queue = r.queue[:0]

	var buf [protocol.FrameSize]byte
	for _, f := range frames {
		out, err := f.Encode(buf[:])
		if err != nil {
			return errors.Wrap(err, "encode")
		}
		if _, err := r.port.Write(out); err != nil {
			return errors.Wrapf(err, "write %c frame", f.Cmd)
		}
		r.stats.Sent++
	}
	return nil
}

// Stream calls Tick at rateHz until ctx is done. The board times the link
// out if the gap between frames exceeds its timeout, so the rate must stay
// well above 1000/TimeoutMs.
func (r *Remote) Stream(ctx context.Context, rateHz int) error {
	if rateHz <= 0 {
		return errors.Errorf("invalid rate %d", rateHz)
	}
	ticker := time.NewTicker(time.Second / time.Duration(rateHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Tick(); err != nil {
				return err
			}
		}
	}
}

// Listen decodes frames arriving from the board and hands each valid one to
// fn until the port returns an error. Noise is skipped byte by byte until a
// frame boundary lines up again.
func (r *Remote) Listen(fn func(protocol.Frame)) error {
	var window []byte
	chunk := make([]byte, 64)

	for {
		n, err := r.port.Read(chunk)
		if n > 0 {
			window = append(window, chunk[:n]...)
			window = r.drain(window, fn)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, "read")
		}
	}
}

func (r *Remote) drain(window []byte, fn func(protocol.Frame)) []byte {
	for len(window) >= protocol.FrameSize {
		f, err := protocol.Decode(window[:protocol.FrameSize])
		if err != nil {
			window = window[1:]
			r.mu.Lock()
			r.stats.Dropped++
			r.mu.Unlock()
			continue
		}
		window = window[protocol.FrameSize:]
		r.mu.Lock()
		r.stats.Received++
		r.mu.Unlock()
		if fn != nil {
			fn(f)
		}
	}
	return window
}
