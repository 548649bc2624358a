// Package fuzz drives a settings stress run against a device console.
//
// A run opens the console, performs Iterations write cycles of a random
// numeric key and value, optionally queries free settings storage, optionally
// factory-resets the device and finally lists the remaining settings. All
// device output is echoed to the operator; nothing is parsed or validated.
//
// Synchronisation with the device is purely time based: every command is
// followed by a fixed settle delay before its output is drained.
package fuzz
