// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23008

import (
	"bytes"
	"strings"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func getDev(ops []i2ctest.IO) (*Dev, *i2ctest.Playback) {
	bus := &i2ctest.Playback{Ops: ops, DontPanic: true}
	return New(bus, DefaultAddress), bus
}

func TestWriteReg(t *testing.T) {
	dev, bus := getDev([]i2ctest.IO{
		{Addr: DefaultAddress, W: []byte{GPIO, 0x55}},
	})
	if err := dev.WriteReg(GPIO, 0x55); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestWriteBlockSplits(t *testing.T) {
	payload := make([]byte, 40)
	for i := range payload {
		payload[i] = byte(i)
	}
	first := append([]byte{GPIO}, payload[:32]...)
	second := append([]byte{GPIO}, payload[32:]...)
	dev, bus := getDev([]i2ctest.IO{
		{Addr: DefaultAddress, W: first},
		{Addr: DefaultAddress, W: second},
	})
	if err := dev.WriteBlock(GPIO, payload); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestWriteBlockEmpty(t *testing.T) {
	dev, bus := getDev(nil)
	if err := dev.WriteBlock(GPIO, nil); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestWriteBlockLimit(t *testing.T) {
	rec := &i2ctest.Record{}
	dev := New(rec, DefaultAddress)
	for _, n := range []int{1, 31, 32, 33, 64, 65, 100} {
		rec.Ops = nil
		data := bytes.Repeat([]byte{0xa5}, n)
		if err := dev.WriteBlock(OLAT, data); err != nil {
			t.Fatal(err)
		}
		total := 0
		for _, op := range rec.Ops {
			if len(op.W)-1 > MaxBlock {
				t.Errorf("n=%d: transaction of %d bytes exceeds %d", n, len(op.W)-1, MaxBlock)
			}
			if op.W[0] != OLAT {
				t.Errorf("n=%d: transaction addressed at %#x", n, op.W[0])
			}
			total += len(op.W) - 1
		}
		if total != n {
			t.Errorf("n=%d: sent %d bytes", n, total)
		}
		if want := (n + MaxBlock - 1) / MaxBlock; len(rec.Ops) != want {
			t.Errorf("n=%d: %d transactions, expected %d", n, len(rec.Ops), want)
		}
	}
}

func TestReads(t *testing.T) {
	dev, bus := getDev([]i2ctest.IO{
		{Addr: DefaultAddress, R: []byte{0x42}},
		{Addr: DefaultAddress, W: []byte{IODIR}, R: []byte{0xff}},
	})
	v, err := dev.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x42 {
		t.Errorf("ReadByte() = %#x, expected 0x42", v)
	}
	v, err = dev.ReadReg(IODIR)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xff {
		t.Errorf("ReadReg(IODIR) = %#x, expected 0xff", v)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestReset(t *testing.T) {
	dev, bus := getDev([]i2ctest.IO{
		{Addr: DefaultAddress, W: []byte{IOCON, 0x00}},
		{Addr: DefaultAddress, W: []byte{IODIR, 0xff, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{Addr: DefaultAddress, W: []byte{IOCON, SEQOP}},
	})
	if err := dev.Reset(); err != nil {
		t.Fatal(err)
	}
	if err := dev.SetSequential(false); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestSafeStateIsCopy(t *testing.T) {
	regs := SafeState()
	regs[IODIR] = 0
	if SafeState()[IODIR] != 0xff {
		t.Fatal("SafeState must not be changed through a returned copy")
	}
	dev, bus := getDev([]i2ctest.IO{
		{Addr: DefaultAddress, W: []byte{IOCON, 0x00}},
		{Addr: DefaultAddress, W: []byte{IODIR, 0xff, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	})
	if err := dev.Reset(); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestBusError(t *testing.T) {
	dev, _ := getDev(nil)
	err := dev.WriteReg(IODIR, 0)
	if err == nil {
		t.Fatal("expected an error from an empty playback")
	}
	if !strings.HasPrefix(err.Error(), "mcp23008: write IODIR") {
		t.Errorf("unexpected error text %q", err)
	}
	if _, err := dev.ReadByte(); err == nil {
		t.Error("expected read error")
	}
}

func TestString(t *testing.T) {
	dev := New(&i2ctest.Record{}, 0x27)
	if s := dev.String(); s != "MCP23008@0x27" {
		t.Errorf("String() = %q", s)
	}
	if RegisterName(OLAT) != "OLAT" || RegisterName(0x20) != "UNKNOWN" {
		t.Error("RegisterName")
	}
}
