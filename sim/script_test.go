package sim

import (
	"testing"

	"hugs/core"
	"hugs/protocol"

	. "github.com/smartystreets/goconvey/convey"
)

func TestScriptedRun(t *testing.T) {
	Convey("Given a master wired to a slave and a scripted remote", t, func() {
		slave, err := NewBoard(core.DefaultConfig(core.Slave), 36, nil)
		So(err, ShouldBeNil)
		wire := &Wire{Peer: slave}
		master, err := NewBoard(core.DefaultConfig(core.Master), 36, wire)
		So(err, ShouldBeNil)

		speed := func(at uint32, v int16) Timed {
			return Timed{AtMs: at, Vector: core.VectorSteerLink, Frame: frame(t, protocol.Frame{Cmd: protocol.CmdSpeed, Value: v})}
		}

		Convey("Frames every 20 ms keep both boards moving", func() {
			var script []Timed
			for at := uint32(0); at < 300; at += 20 {
				script = append(script, speed(at, 500))
			}
			res := master.Run(script, 300, slave)

			So(res.Shutdown, ShouldEqual, core.ShutdownNone)
			So(res.Delivered, ShouldEqual, uint32(len(script)))
			So(res.ElapsedMs, ShouldBeGreaterThanOrEqualTo, uint32(300))
			So(master.State.TimedOut(), ShouldBeFalse)
			So(slave.State.TimedOut(), ShouldBeFalse)
			So(slave.State.Speed(), ShouldEqual, int32(500))
			So(slave.H.Now(), ShouldEqual, master.H.Now())
		})

		Convey("A silent remote stops the master, and the slave follows", func() {
			res := master.Run([]Timed{speed(0, 500)}, 300, slave)

			So(res.Shutdown, ShouldEqual, core.ShutdownNone)
			So(master.State.TimedOut(), ShouldBeTrue)
			So(master.State.Speed(), ShouldEqual, int32(0))
			// Zero keeps arriving over the wire, so the slave link is alive
			So(slave.State.TimedOut(), ShouldBeFalse)
			So(slave.State.Speed(), ShouldEqual, int32(0))
		})

		Convey("A dead pack ends the run early", func() {
			master.ADC.Voltage = 29
			res := master.Run(nil, 300, slave)

			So(res.Shutdown, ShouldEqual, core.ShutdownBatteryDead)
			So(res.Iterations, ShouldEqual, uint32(1))
			So(master.GPIO.Level(DefaultPins.SelfHold), ShouldBeFalse)
		})
	})
}
