// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

import (
	"bytes"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// InputKind classifies a routed input event.
type InputKind int

const (
	// InputNone is an event the list does not consume.
	InputNone InputKind = iota

	// InputStep moves one row (scroll mode) or one item or group
	// (item mode). Direction is -1 or +1.
	InputStep

	// InputPage moves one visible height. Direction is -1 or +1.
	InputPage

	// InputHalfPage moves half a visible height. Direction is -1 or +1.
	InputHalfPage

	// InputHome moves to the first row or item.
	InputHome

	// InputEnd moves to the last row or item.
	InputEnd

	// InputWheel is a mouse wheel notch. Direction is -1 (up) or +1
	// (down). Scroll mode accelerates wheel bursts.
	InputWheel

	// InputCommit confirms the selected item.
	InputCommit
)

// String returns a short name for logs.
func (kind InputKind) String() string {
	switch kind {
	case InputStep:
		return "step"
	case InputPage:
		return "page"
	case InputHalfPage:
		return "half-page"
	case InputHome:
		return "home"
	case InputEnd:
		return "end"
	case InputWheel:
		return "wheel"
	case InputCommit:
		return "commit"
	default:
		return "none"
	}
}

// Input is one routed event. Every event maps to at most one Input,
// and every Input causes at most one state transition.
type Input struct {
	Kind      InputKind
	Direction int
}

// RawInputMsg carries unparsed terminal input bytes, for hosts that
// read mouse reports outside bubbletea's decoder.
type RawInputMsg []byte

// Route classifies msg against keys. Keyboard bindings, structured
// wheel events (tea.MouseMsg), raw X10 and SGR wheel reports
// (RawInputMsg, or rune KeyMsgs carrying an undecoded report) are all
// recognized. Anything else, including malformed reports, routes to
// InputNone.
func Route(msg tea.Msg, keys KeyMap) Input {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return routeKey(msg, keys)
	case tea.MouseMsg:
		return routeMouse(msg)
	case RawInputMsg:
		if direction, ok := DecodeRawWheel(msg); ok {
			return Input{Kind: InputWheel, Direction: direction}
		}
	}
	return Input{}
}

func routeKey(msg tea.KeyMsg, keys KeyMap) Input {
	// Terminals without mouse mode negotiated in bubbletea can leak
	// wheel reports through as rune input.
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 1 {
		if direction, ok := DecodeRawWheel([]byte(string(msg.Runes))); ok {
			return Input{Kind: InputWheel, Direction: direction}
		}
	}

	switch {
	case key.Matches(msg, keys.Up):
		return Input{Kind: InputStep, Direction: -1}
	case key.Matches(msg, keys.Down):
		return Input{Kind: InputStep, Direction: 1}
	case key.Matches(msg, keys.PageUp):
		return Input{Kind: InputPage, Direction: -1}
	case key.Matches(msg, keys.PageDown):
		return Input{Kind: InputPage, Direction: 1}
	case key.Matches(msg, keys.HalfPageUp):
		return Input{Kind: InputHalfPage, Direction: -1}
	case key.Matches(msg, keys.HalfPageDown):
		return Input{Kind: InputHalfPage, Direction: 1}
	case key.Matches(msg, keys.Home):
		return Input{Kind: InputHome, Direction: -1}
	case key.Matches(msg, keys.End):
		return Input{Kind: InputEnd, Direction: 1}
	case key.Matches(msg, keys.Select):
		return Input{Kind: InputCommit}
	}
	return Input{}
}

func routeMouse(msg tea.MouseMsg) Input {
	if msg.Action != tea.MouseActionPress {
		return Input{}
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return Input{Kind: InputWheel, Direction: -1}
	case tea.MouseButtonWheelDown:
		return Input{Kind: InputWheel, Direction: 1}
	}
	return Input{}
}

// Wheel button codes after the X10 offset is removed. Bit 6 marks a
// wheel event; the low two bits select the direction.
const (
	wheelFlag     = 0x40
	wheelDownBit  = 0x01
	directionMask = 0x03
	modifierMask  = 0x04 | 0x08 | 0x10
	x10Offset     = 32
)

// DecodeRawWheel recognizes a mouse wheel report in raw terminal input
// and returns -1 for wheel-up or +1 for wheel-down.
//
// Two encodings are accepted:
//
//   - X10: ESC [ M Cb Cx Cy, where Cb-32 has bit 6 set for wheel
//     events and low bits 0 (up) or 1 (down). The ESC may already have
//     been stripped by an upstream parser.
//   - SGR: ESC [ < Cb ; Cx ; Cy M, with Cb 64 (up) or 65 (down).
//
// Shift, meta and control modifier bits are ignored. Anything else,
// including truncated reports and non-wheel buttons, returns ok=false.
func DecodeRawWheel(data []byte) (direction int, ok bool) {
	data = bytes.TrimPrefix(data, []byte{0x1b})
	switch {
	case bytes.HasPrefix(data, []byte("[M")):
		report := data[2:]
		if len(report) < 3 || report[0] < x10Offset {
			return 0, false
		}
		return wheelDirection(int(report[0]) - x10Offset)
	case bytes.HasPrefix(data, []byte("[<")):
		body := data[2:]
		if len(body) == 0 || (body[len(body)-1] != 'M' && body[len(body)-1] != 'm') {
			return 0, false
		}
		fields := bytes.Split(body[:len(body)-1], []byte(";"))
		if len(fields) != 3 {
			return 0, false
		}
		for _, field := range fields[1:] {
			if _, err := strconv.Atoi(string(field)); err != nil {
				return 0, false
			}
		}
		button, err := strconv.Atoi(string(fields[0]))
		if err != nil || button < 0 {
			return 0, false
		}
		return wheelDirection(button)
	}
	return 0, false
}

func wheelDirection(button int) (int, bool) {
	button &^= modifierMask
	if button&wheelFlag == 0 {
		return 0, false
	}
	switch button & directionMask {
	case 0:
		return -1, true
	case wheelDownBit:
		return 1, true
	}
	return 0, false
}
