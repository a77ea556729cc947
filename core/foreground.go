package core

// BatteryBand is the indicator state derived from the pack voltage.
type BatteryBand uint8

const (
	BatteryGreen BatteryBand = iota
	BatteryOrange
	BatteryRed
	BatteryDead
)

func (b BatteryBand) String() string {
	switch b {
	case BatteryGreen:
		return "green"
	case BatteryOrange:
		return "orange"
	case BatteryRed:
		return "red"
	default:
		return "dead"
	}
}

// ClassifyBattery maps a pack voltage onto exactly one band. Each threshold
// belongs to the band below it: v == BatLowLvl1 is orange, v == BatLowLvl2
// is red, v == BatLowDead is dead.
func (c Config) ClassifyBattery(v float32) BatteryBand {
	switch {
	case v > c.BatLowLvl1:
		return BatteryGreen
	case v > c.BatLowLvl2:
		return BatteryOrange
	case v > c.BatLowDead:
		return BatteryRed
	default:
		return BatteryDead
	}
}

// ScaleSpeed turns a commanded speed into the output command: values inside
// the dead band give 0, everything else is clamped and scaled.
func (c Config) ScaleSpeed(v int32) int16 {
	if v > -c.DeadBand && v < c.DeadBand {
		return 0
	}
	if v < c.SpeedMin {
		v = c.SpeedMin
	} else if v > c.SpeedMax {
		v = c.SpeedMax
	}
	return int16(float32(v) * c.SpeedCoefficient)
}

// ShutdownReason says why the supervisory loop powered the board down.
type ShutdownReason uint8

const (
	ShutdownNone ShutdownReason = iota
	ShutdownBatteryDead
	ShutdownButton
	ShutdownInactivity
)

func (r ShutdownReason) String() string {
	switch r {
	case ShutdownNone:
		return "none"
	case ShutdownBatteryDead:
		return "battery_dead"
	case ShutdownButton:
		return "button"
	case ShutdownInactivity:
		return "inactivity"
	default:
		return "unknown"
	}
}

// Indicator shows the battery band to the rider.
type Indicator interface {
	ShowBattery(band BatteryBand)
}

// LEDIndicator lights exactly one of the three battery LEDs.
type LEDIndicator struct {
	GPIO GPIODriver
	Pins Pins
}

func (l LEDIndicator) ShowBattery(band BatteryBand) {
	writePin(l.GPIO, l.Pins.LEDGreen, band == BatteryGreen, SourceForeground, 0)
	writePin(l.GPIO, l.Pins.LEDOrange, band == BatteryOrange, SourceForeground, 0)
	writePin(l.GPIO, l.Pins.LEDRed, band == BatteryRed, SourceForeground, 0)
}

// Foreground is the supervisory loop: the only non-interrupt context.
type Foreground struct {
	rt        RealTime
	cfg       Config
	gpio      GPIODriver
	pins      Pins
	motor     MotorDriver
	analog    Analog
	watchdog  Watchdog
	comms     CommsPort
	sink      CommandSink
	indicator Indicator

	activity   func() bool
	inactivity uint32
	scaled     int16
	powerOff   func()
}

// ForegroundOptions are the loop's collaborators that interrupt handlers
// never touch.
type ForegroundOptions struct {
	Watchdog  Watchdog
	Comms     CommsPort
	Sink      CommandSink // Master only, may be nil
	Indicator Indicator   // Defaults to LEDIndicator on hw.GPIO
}

// NewForeground builds the supervisory loop for rt.
func NewForeground(rt RealTime, hw Hardware, opts ForegroundOptions) *Foreground {
	f := &Foreground{
		rt:        rt,
		cfg:       rt.Config(),
		gpio:      hw.GPIO,
		pins:      hw.Pins,
		motor:     hw.Motor,
		analog:    hw.Analog,
		watchdog:  opts.Watchdog,
		comms:     opts.Comms,
		sink:      opts.Sink,
		indicator: opts.Indicator,
		// Nothing reports rider activity yet, so the board always counts as
		// active and the inactivity power-off never fires.
		activity: func() bool { return true },
	}
	if f.indicator == nil {
		f.indicator = LEDIndicator{GPIO: hw.GPIO, Pins: hw.Pins}
	}
	f.powerOff = f.spinFeeding
	return f
}

// SetActivitySource replaces the rider-activity predicate used by the
// inactivity power-off.
func (f *Foreground) SetActivitySource(fn func() bool) {
	f.activity = fn
}

// SetPowerOffHook replaces the final spin of the shutdown sequence.
func (f *Foreground) SetPowerOffHook(fn func()) {
	f.powerOff = fn
}

// ScaledSpeed returns the output command computed by the last iteration.
func (f *Foreground) ScaledSpeed() int16 {
	return f.scaled
}

// Inactivity returns the inactivity counter in loop iterations.
func (f *Foreground) Inactivity() uint32 {
	return f.inactivity
}

// Run iterates forever, powering the board down when an iteration asks to.
func (f *Foreground) Run() {
	for {
		if reason := f.Iterate(); reason != ShutdownNone {
			f.ShutOff(reason)
			return
		}
	}
}

// Iterate runs one pass of the loop, including its delay and watchdog feed.
// A non-zero reason means the caller must run ShutOff; the watchdog is not
// fed in that case.
func (f *Foreground) Iterate() ShutdownReason {
	if f.cfg.Variant == Master {
		if reason := f.supervise(); reason != ShutdownNone {
			return reason
		}
	}

	f.rt.Clock().DelayMs(f.cfg.LoopDelayMs)
	f.watchdog.Reload()
	return ShutdownNone
}

func (f *Foreground) supervise() ShutdownReason {
	f.scaled = f.cfg.ScaleSpeed(f.rt.State().Speed())
	if f.sink != nil {
		f.sink.SendSpeed(f.scaled)
	}

	// Charge state is low active: the output stage is only enabled while no
	// charger is connected.
	f.motor.SetEnable(f.gpio.ReadPin(f.pins.ChargeState))

	band := f.cfg.ClassifyBattery(f.analog.BatteryVoltage())
	if band == BatteryDead {
		return ShutdownBatteryDead
	}
	f.indicator.ShowBattery(band)

	if f.gpio.ReadPin(f.pins.Button) {
		f.waitButtonRelease()
		return ShutdownButton
	}

	if f.activity() {
		f.inactivity = 0
	} else {
		f.inactivity++
	}
	if f.inactivity > f.cfg.InactivityLimit() {
		return ShutdownInactivity
	}
	return ShutdownNone
}

func (f *Foreground) waitButtonRelease() {
	for f.gpio.ReadPin(f.pins.Button) {
		f.watchdog.Reload()
	}
}

// ShutOff disables the inter-unit link, forces the outputs off, drops the
// self-hold latch and then keeps feeding the watchdog until the supply dies,
// so the board powers off instead of resetting.
func (f *Foreground) ShutOff(reason ShutdownReason) {
	now := f.rt.Clock().Now()
	RecordTiming(EvtShutdown, SourceForeground, uint32(now), uint32(reason), 0)
	DebugPrintln("[SUPERVISOR] shutdown: " + reason.String() +
		" speed=" + itoa(f.rt.State().Speed()))

	if f.comms != nil {
		f.comms.Disable()
	}
	f.rt.State().SetSpeed(0)
	f.motor.SetEnable(false)
	writePin(f.gpio, f.pins.SelfHold, false, SourceForeground, now)

	f.powerOff()
}

func (f *Foreground) spinFeeding() {
	for {
		f.watchdog.Reload()
	}
}
