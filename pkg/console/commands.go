package console

import (
	"fmt"

	"github.com/LuDuda/settings-fuzz/pkg/log"
)

// Command is one console command line.
type Command struct {
	Kind log.CommandKind
	Text string
}

// WriteSetting returns "settings write <path> <value>".
func WriteSetting(path, value string) Command {
	return Command{Kind: log.CommandWrite, Text: fmt.Sprintf("settings write %s %s", path, value)}
}

// FreeSpace returns the free settings storage query.
func FreeSpace() Command {
	return Command{Kind: log.CommandFreeSpace, Text: "matter_settings free"}
}

// FactoryReset returns the destructive factory reset command.
func FactoryReset() Command {
	return Command{Kind: log.CommandFactoryReset, Text: "matter device factoryreset"}
}

// ListSettings returns the settings enumeration command.
func ListSettings() Command {
	return Command{Kind: log.CommandList, Text: "settings list"}
}

// Raw wraps operator input unchanged.
func Raw(text string) Command {
	return Command{Kind: log.CommandRaw, Text: text}
}

// Line returns the command as it goes on the wire.
func (c Command) Line() string {
	return c.Text + "\n"
}

// String returns the command text.
func (c Command) String() string {
	return c.Text
}
