//go:build rp2040

package main

import (
	"device/rp"
	"machine"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"hugs/core"
)

// RP2040 DMA and UART memory map
const (
	dmaBase       = 0x50000000
	dmaChanStride = 0x40
	dmaREAD_ADDR  = 0x00
	dmaWRITE_ADDR = 0x04
	dmaTRANS_CNT  = 0x08
	dmaCTRL_TRIG  = 0x0C
	dmaINTE0      = dmaBase + 0x404
	dmaINTS0      = dmaBase + 0x40C
	dmaINTE1      = dmaBase + 0x414
	dmaINTS1      = dmaBase + 0x41C

	dmaCtrlEN        = 1 << 0
	dmaCtrlINCRWRITE = 1 << 5
	dmaCtrlChainPos  = 11
	dmaCtrlTreqPos   = 15
	dmaCtrlBUSY      = 1 << 24

	uart0Base     = 0x40034000
	uart1Base     = 0x40038000
	uartDR        = 0x00
	uartCR        = 0x30
	uartIMSC      = 0x38
	uartDMACR     = 0x48
	uartCR_EN     = 1 << 0
	uartIMSC_RX   = 1<<4 | 1<<6 // RX and RX timeout
	uartDMACR_RXE = 1 << 0

	dreqUART0RX = 21
	dreqUART1RX = 23
)

func reg(addr uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}

// dmaFlag is the transfer-complete bit of one channel on one DMA IRQ line
type dmaFlag struct {
	ints *volatile.Register32
	mask uint32
}

func (f dmaFlag) Pending() bool { return f.ints.HasBits(f.mask) }
func (f dmaFlag) Clear()        { f.ints.Set(f.mask) } // write 1 to clear

// dmaLink receives fixed-size frames from a UART into a buffer by DMA
type dmaLink struct {
	uart    *machine.UART
	base    uintptr
	channel uint32
	dreq    uint32
	line    int // DMA IRQ line
	buf     []byte
	flag    dmaFlag
}

func newDMALink(uart *machine.UART, base uintptr, channel, dreq uint32, line int, buf []byte) *dmaLink {
	l := &dmaLink{uart: uart, base: base, channel: channel, dreq: dreq, line: line, buf: buf}
	if line == 0 {
		l.flag = dmaFlag{ints: reg(dmaINTS0), mask: 1 << channel}
	} else {
		l.flag = dmaFlag{ints: reg(dmaINTS1), mask: 1 << channel}
	}
	return l
}

// Init configures the UART and hands its RX FIFO to the DMA channel
func (l *dmaLink) Init(baud uint32, tx, rx machine.Pin) error {
	if err := l.uart.Configure(machine.UARTConfig{BaudRate: baud, TX: tx, RX: rx}); err != nil {
		return err
	}
	// The DMA drains the FIFO, not the machine package's RX interrupt
	reg(l.base + uartIMSC).ClearBits(uartIMSC_RX)
	reg(l.base + uartDMACR).SetBits(uartDMACR_RXE)

	l.chanReg(dmaREAD_ADDR).Set(uint32(l.base + uartDR))

	if l.line == 0 {
		reg(dmaINTE0).SetBits(1 << l.channel)
	} else {
		reg(dmaINTE1).SetBits(1 << l.channel)
	}
	l.arm()
	return nil
}

func (l *dmaLink) chanReg(off uintptr) *volatile.Register32 {
	return reg(dmaBase + uintptr(l.channel)*dmaChanStride + off)
}

// arm restarts the channel for the next frame unless it is still running
func (l *dmaLink) arm() {
	if l.chanReg(dmaCTRL_TRIG).HasBits(dmaCtrlBUSY) {
		return
	}
	l.chanReg(dmaWRITE_ADDR).Set(uint32(uintptr(unsafe.Pointer(&l.buf[0]))))
	l.chanReg(dmaTRANS_CNT).Set(uint32(len(l.buf)))
	l.chanReg(dmaCTRL_TRIG).Set(dmaCtrlEN | dmaCtrlINCRWRITE |
		l.channel<<dmaCtrlChainPos | l.dreq<<dmaCtrlTreqPos)
}

// Disable stops reception and transmission on the link
func (l *dmaLink) Disable() {
	reg(l.base + uartDMACR).ClearBits(uartDMACR_RXE)
	reg(l.base + uartCR).ClearBits(uartCR_EN)
}

// startLinks enables the two DMA IRQ lines: line 0 carries the steer
// (or bluetooth) channel, line 1 the inter-unit channel.
func startLinks() {
	steer := interrupt.New(rp.IRQ_DMA_IRQ_0, steerISR)
	unit := interrupt.New(rp.IRQ_DMA_IRQ_1, interUnitISR)
	steer.SetPriority(nvicPriority(core.VectorSteerLink))
	unit.SetPriority(nvicPriority(core.VectorInterUnitLink))
	steer.Enable()
	unit.Enable()
}

func steerISR(interrupt.Interrupt) {
	board.rt.SteerLinkComplete()
	board.steer.arm()
}

func interUnitISR(interrupt.Interrupt) {
	board.rt.InterUnitLinkComplete()
	board.interUnit.arm()
}
