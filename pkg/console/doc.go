// Package console talks to a device's line-oriented shell over a serial port.
//
// The device console accepts newline-terminated ASCII commands and answers
// with zero or more newline-terminated text lines. There is no framing, no
// prompt detection and no acknowledgement: callers send a Command, wait a
// fixed settle time and then Drain whatever the device has printed.
//
// # Commands
//
//	settings write <path> <value>   write a key/value pair
//	settings list                   enumerate all stored settings
//	matter_settings free            report free settings storage
//	matter device factoryreset      erase all settings and reboot
//
// # Draining
//
// ReadLines keeps reading until a read returns no data within the port's
// read timeout, so the read timeout bounds how long a quiet device is waited
// for. Lines are decoded either strictly (invalid UTF-8 is an error) or
// leniently (invalid bytes are dropped).
package console
