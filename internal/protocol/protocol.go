// Package protocol defines the wire format: a closed set of JSON commands
// and responses, each a self-describing object with a "type" discriminator.
// Anything that does not parse into a known command is rejected as malformed
// before it can touch room state.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mmynk/bankroll/internal/models"
)

// ErrMalformed marks a message body that could not be parsed into a known
// command variant.
var ErrMalformed = errors.New("malformed command")

// CommandType discriminates inbound commands.
type CommandType string

const (
	CmdCreateRoom    CommandType = "create_room"
	CmdJoin          CommandType = "join"
	CmdTransfer      CommandType = "transfer"
	CmdReset         CommandType = "reset"
	CmdKick          CommandType = "kick"
	CmdAdminAdd      CommandType = "admin_add"
	CmdAdminSubtract CommandType = "admin_subtract"
	CmdAdminSet      CommandType = "admin_set"
	CmdGetBills      CommandType = "get_bills"
)

// Command is one inbound client message. Only the fields relevant to Type
// carry meaning; the Room field is accepted for wire compatibility but the
// connection's binding is authoritative for every post-join command.
type Command struct {
	Type     CommandType `json:"type"`
	Room     string      `json:"room,omitempty"`
	Username string      `json:"username,omitempty"`
	Password string      `json:"password,omitempty"`
	From     string      `json:"from,omitempty"`
	To       string      `json:"to,omitempty"`
	Target   string      `json:"target,omitempty"`
	KickWho  string      `json:"kickWho,omitempty"`

	// Amount is kept as a raw JSON number so validation (and its
	// silent-rejection policy) stays a command-processor concern.
	Amount json.Number `json:"amount,omitempty"`
}

var knownCommands = map[CommandType]bool{
	CmdCreateRoom:    true,
	CmdJoin:          true,
	CmdTransfer:      true,
	CmdReset:         true,
	CmdKick:          true,
	CmdAdminAdd:      true,
	CmdAdminSubtract: true,
	CmdAdminSet:      true,
	CmdGetBills:      true,
}

// Decode parses a raw message into a Command. Unparseable JSON and unknown
// type discriminators both fail with ErrMalformed.
func Decode(raw []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !knownCommands[cmd.Type] {
		return Command{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, cmd.Type)
	}
	return cmd, nil
}

// AmountValue parses the command's amount as a whole currency unit. ok is
// false for a missing, non-numeric or non-integer amount; range policy
// (positive, non-negative) is left to the caller.
func (c Command) AmountValue() (int64, bool) {
	if c.Amount == "" {
		return 0, false
	}
	v, err := c.Amount.Int64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// Outbound message types.
const (
	MsgRoomCreated = "room_created"
	MsgPlayerList  = "player_list"
	MsgBills       = "bills"
	MsgError       = "error"
)

// RoomCreated acknowledges a successful create_room.
type RoomCreated struct {
	Type string `json:"type"`
}

// PlayerList carries the full roster snapshot of a room.
type PlayerList struct {
	Type string              `json:"type"`
	List []models.PlayerView `json:"list"`
}

// Bills carries the full (viewer-filtered) bill log of a room.
type Bills struct {
	Type  string             `json:"type"`
	Bills []models.BillEntry `json:"bills"`
}

// Error carries a human-readable failure message.
type Error struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// NewRoomCreated builds a room_created response.
func NewRoomCreated() RoomCreated {
	return RoomCreated{Type: MsgRoomCreated}
}

// NewPlayerList builds a player_list broadcast.
func NewPlayerList(list []models.PlayerView) PlayerList {
	return PlayerList{Type: MsgPlayerList, List: list}
}

// NewBills builds a bills message.
func NewBills(bills []models.BillEntry) Bills {
	return Bills{Type: MsgBills, Bills: bills}
}

// NewError builds an error message.
func NewError(msg string) Error {
	return Error{Type: MsgError, Msg: msg}
}
