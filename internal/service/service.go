// Package service implements the protocol state machine: it validates each
// inbound command against the room registry and the connection's session
// binding, applies the resulting mutation under the room's lock, and pushes
// full-state snapshots to every live connection in the room.
package service

import (
	"errors"
	"log/slog"

	"github.com/mmynk/bankroll/internal/metrics"
	"github.com/mmynk/bankroll/internal/models"
	"github.com/mmynk/bankroll/internal/protocol"
	"github.com/mmynk/bankroll/internal/registry"
)

// Client-facing error messages.
const (
	msgRoomExists        = "room already exists"
	msgRoomNotFound      = "room not found"
	msgBadPassword       = "wrong room password"
	msgRoomNameRequired  = "room name required"
	msgUsernameRequired  = "username required"
	msgNotJoined         = "join a room first"
	msgAlreadyJoined     = "already joined a room"
	msgInsufficientFunds = "transfer failed: insufficient balance"
	msgAdminOnlyReset    = "only the administrator can reset the game"
	msgAdminOnlyKick     = "only the administrator can remove players"
	msgAdminOnlyAdjust   = "only the administrator can adjust balances"
	msgKicked            = "you were removed from the room by the host"
	msgMalformed         = "invalid message format"
)

// Service is the command processor. All shared state it touches lives in
// the registry; the service itself is stateless and safe for concurrent use
// by any number of connection read loops.
type Service struct {
	registry *registry.Registry

	adminName     string
	startingStake int64
}

// New builds a command processor around the given registry. adminName is
// the privileged display name; startingStake is the balance granted to new
// non-administrator players and restored on reset.
func New(reg *registry.Registry, adminName string, startingStake int64) *Service {
	return &Service{
		registry:      reg,
		adminName:     adminName,
		startingStake: startingStake,
	}
}

// HandleMessage processes one raw inbound message for the given session.
// It never panics on bad input; unparseable messages are answered with a
// generic error and leave all state untouched.
func (s *Service) HandleMessage(sess *Session, raw []byte) {
	cmd, err := protocol.Decode(raw)
	if err != nil {
		slog.Warn("malformed message", "conn_id", sess.ID, "error", err)
		metrics.CommandsTotal.WithLabelValues("malformed").Inc()
		s.send(sess, protocol.NewError(msgMalformed))
		return
	}
	metrics.CommandsTotal.WithLabelValues(string(cmd.Type)).Inc()

	switch cmd.Type {
	case protocol.CmdCreateRoom:
		s.handleCreateRoom(sess, cmd)
	case protocol.CmdJoin:
		s.handleJoin(sess, cmd)
	default:
		if !sess.Bound() {
			s.send(sess, protocol.NewError(msgNotJoined))
			return
		}
		s.handleBound(sess, cmd)
	}
}

func (s *Service) handleBound(sess *Session, cmd protocol.Command) {
	room, err := s.registry.Lookup(sess.Room)
	if err != nil {
		// The bound room can only vanish through a reap, which requires
		// every connection to be gone. Seeing this means the transport
		// outlived the room; answer and move on.
		s.send(sess, protocol.NewError(msgRoomNotFound))
		return
	}

	switch cmd.Type {
	case protocol.CmdTransfer:
		s.handleTransfer(sess, room, cmd)
	case protocol.CmdReset:
		s.handleReset(sess, room)
	case protocol.CmdKick:
		s.handleKick(sess, room, cmd)
	case protocol.CmdAdminAdd:
		s.handleAdminAdjust(sess, room, cmd, models.BillAdminAdd)
	case protocol.CmdAdminSubtract:
		s.handleAdminAdjust(sess, room, cmd, models.BillAdminSubtract)
	case protocol.CmdAdminSet:
		s.handleAdminAdjust(sess, room, cmd, models.BillAdminSet)
	case protocol.CmdGetBills:
		s.handleGetBills(sess, room)
	}
}

func (s *Service) handleCreateRoom(sess *Session, cmd protocol.Command) {
	if cmd.Room == "" {
		s.send(sess, protocol.NewError(msgRoomNameRequired))
		return
	}
	if _, err := s.registry.Create(cmd.Room, cmd.Password); errors.Is(err, registry.ErrRoomExists) {
		slog.Info("create room rejected: name taken", "room", cmd.Room, "conn_id", sess.ID)
		s.send(sess, protocol.NewError(msgRoomExists))
		return
	}
	metrics.RoomsActive.Set(float64(s.registry.Len()))
	slog.Info("room created", "room", cmd.Room, "conn_id", sess.ID)
	s.send(sess, protocol.NewRoomCreated())
}

func (s *Service) handleJoin(sess *Session, cmd protocol.Command) {
	// A binding never moves to another room. Without this check the old
	// room's player would keep a connection slot pointing at this session
	// forever, and the reaper would never collect the room.
	if sess.Bound() && sess.Room != cmd.Room {
		slog.Warn("join rejected: already bound", "room", cmd.Room,
			"bound_room", sess.Room, "conn_id", sess.ID)
		s.send(sess, protocol.NewError(msgAlreadyJoined))
		return
	}

	room, err := s.registry.Lookup(cmd.Room)
	if err != nil {
		s.send(sess, protocol.NewError(msgRoomNotFound))
		sess.Conn.Close()
		return
	}
	if room.Password != cmd.Password {
		slog.Warn("join rejected: bad password", "room", cmd.Room, "conn_id", sess.ID)
		s.send(sess, protocol.NewError(msgBadPassword))
		sess.Conn.Close()
		return
	}

	username, selfFunding := normalizeName(cmd.Username)
	if username == "" {
		s.send(sess, protocol.NewError(msgUsernameRequired))
		sess.Conn.Close()
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	// The lookup can race the reaper: the room may have been removed from
	// the table before we got its lock. A dead room must not accept a
	// binding the reaper will never see again.
	if room.Dead {
		s.send(sess, protocol.NewError(msgRoomNotFound))
		sess.Conn.Close()
		return
	}

	player := room.FindPlayer(username)
	if player != nil {
		// Reconnect: rebind the connection and refresh the session flag,
		// balance and history stay untouched.
		player.Conn = sess.Conn
		player.SelfFunding = selfFunding
		slog.Info("player reconnected", "room", room.Name, "username", username, "conn_id", sess.ID)
	} else {
		balance := s.startingStake
		if username == s.adminName {
			balance = 0
		}
		player = &models.Player{
			Username:    username,
			Balance:     balance,
			SelfFunding: selfFunding,
			Conn:        sess.Conn,
		}
		room.Players = append(room.Players, player)
		slog.Info("player joined", "room", room.Name, "username", username,
			"balance", balance, "self_funding", selfFunding, "conn_id", sess.ID)
	}

	// Rejoining the same room under a new name releases the previous
	// player's slot; a connection is bound to at most one player.
	if sess.Username != "" && sess.Username != username {
		if prev := room.FindPlayer(sess.Username); prev != nil && prev.Conn == sess.Conn {
			prev.Conn = nil
		}
	}

	sess.Room = room.Name
	sess.Username = username
	sess.SelfFunding = selfFunding

	s.broadcastRoster(room)
	s.broadcastBills(room)
}

func (s *Service) handleTransfer(sess *Session, room *models.Room, cmd protocol.Command) {
	from, _ := normalizeName(cmd.From)
	to, _ := normalizeName(cmd.To)
	amount, ok := cmd.AmountValue()
	if !ok || amount <= 0 {
		slog.Debug("transfer ignored: bad amount", "room", room.Name, "amount", cmd.Amount)
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	sender := room.FindPlayer(from)
	receiver := room.FindPlayer(to)
	if sender == nil || receiver == nil {
		slog.Debug("transfer ignored: unknown player", "room", room.Name, "from", from, "to", to)
		return
	}

	if from == to {
		// A self-transfer is an untracked top-up, reserved for
		// self-funding sessions; anyone else's is a no-op.
		if !sender.SelfFunding {
			return
		}
		sender.Balance += amount
		room.Bills = append(room.Bills, models.NewSelfFundBill(from, amount))
		slog.Info("self fund", "room", room.Name, "username", from, "amount", amount)
		s.broadcastRoster(room)
		s.broadcastBills(room)
		return
	}

	if sender.Balance < amount {
		slog.Info("transfer rejected: insufficient balance", "room", room.Name,
			"from", from, "to", to, "amount", amount, "balance", sender.Balance)
		if sender.Conn != nil {
			if err := sender.Conn.Send(protocol.NewError(msgInsufficientFunds)); err != nil {
				slog.Debug("send failed", "room", room.Name, "username", from, "error", err)
			}
		}
		return
	}

	sender.Balance -= amount
	receiver.Balance += amount
	room.Bills = append(room.Bills, models.NewTransferBill(from, to, amount))
	slog.Info("transfer", "room", room.Name, "from", from, "to", to, "amount", amount)
	s.broadcastRoster(room)
	s.broadcastBills(room)
}

func (s *Service) handleReset(sess *Session, room *models.Room) {
	if sess.Username != s.adminName {
		s.send(sess, protocol.NewError(msgAdminOnlyReset))
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	for _, p := range room.Players {
		if p.Username != s.adminName {
			p.Balance = s.startingStake
		}
	}
	room.Bills = append(room.Bills, models.NewResetBill())
	slog.Info("balances reset", "room", room.Name)
	s.broadcastRoster(room)
	s.broadcastBills(room)
}

func (s *Service) handleKick(sess *Session, room *models.Room, cmd protocol.Command) {
	if sess.Username != s.adminName {
		s.send(sess, protocol.NewError(msgAdminOnlyKick))
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	target := room.FindPlayer(cmd.KickWho)
	if target == nil {
		return
	}
	if target.Conn != nil {
		if err := target.Conn.Send(protocol.NewError(msgKicked)); err != nil {
			slog.Debug("send failed", "room", room.Name, "username", target.Username, "error", err)
		}
		target.Conn.Close()
	}
	// Unlike a disconnect this is a hard removal: the username is free for
	// reuse as a brand-new player.
	room.RemovePlayer(target.Username)
	room.Bills = append(room.Bills, models.NewKickBill(target.Username))
	slog.Info("player kicked", "room", room.Name, "username", target.Username)
	s.broadcastRoster(room)
	s.broadcastBills(room)
}

func (s *Service) handleAdminAdjust(sess *Session, room *models.Room, cmd protocol.Command, kind models.BillType) {
	if sess.Username != s.adminName {
		s.send(sess, protocol.NewError(msgAdminOnlyAdjust))
		return
	}
	amount, ok := cmd.AmountValue()
	if !ok || amount < 0 {
		slog.Debug("adjust ignored: bad amount", "room", room.Name, "amount", cmd.Amount)
		return
	}
	target, _ := normalizeName(cmd.Target)

	room.Mu.Lock()
	defer room.Mu.Unlock()

	player := room.FindPlayer(target)
	if player == nil {
		slog.Debug("adjust ignored: unknown target", "room", room.Name, "target", target)
		return
	}

	before := player.Balance
	switch kind {
	case models.BillAdminAdd:
		player.Balance += amount
	case models.BillAdminSubtract:
		player.Balance = max(0, player.Balance-amount)
	case models.BillAdminSet:
		player.Balance = amount
	}

	room.Bills = append(room.Bills, models.NewAdminBill(kind, target, amount, before, player.Balance))
	slog.Info("balance adjusted", "room", room.Name, "kind", kind,
		"target", target, "amount", amount, "before", before, "after", player.Balance)
	s.broadcastRoster(room)
	s.broadcastBills(room)
}

func (s *Service) handleGetBills(sess *Session, room *models.Room) {
	room.Mu.Lock()
	bills := room.VisibleBills(sess.Username, sess.SelfFunding)
	room.Mu.Unlock()
	s.send(sess, protocol.NewBills(bills))
}

// Disconnect clears the player's connection slot when the transport reports
// closure. The player record stays: balance and roster are unaffected by
// presence, so nothing is broadcast. Room deletion is the reaper's job.
func (s *Service) Disconnect(sess *Session) {
	if !sess.Bound() {
		return
	}
	room, err := s.registry.Lookup(sess.Room)
	if err != nil {
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	player := room.FindPlayer(sess.Username)
	// A reconnect may already have rebound the player to a newer
	// connection; only clear the slot if it is still ours.
	if player != nil && player.Conn == sess.Conn {
		player.Conn = nil
		slog.Info("player disconnected", "room", room.Name, "username", sess.Username, "conn_id", sess.ID)
	}
}

// send writes one message to the session's connection, best effort.
func (s *Service) send(sess *Session, v any) {
	if err := sess.Conn.Send(v); err != nil {
		slog.Debug("send failed", "conn_id", sess.ID, "error", err)
	}
}

// broadcastRoster pushes the full player list to every live connection in
// the room. Callers must hold the room lock, which also guarantees that
// broadcasts leave in mutation order.
func (s *Service) broadcastRoster(room *models.Room) {
	msg := protocol.NewPlayerList(room.Roster())
	for _, p := range room.Players {
		if p.Conn == nil {
			continue
		}
		if err := p.Conn.Send(msg); err != nil {
			slog.Debug("broadcast skipped", "room", room.Name, "username", p.Username, "error", err)
		}
	}
	metrics.BroadcastsTotal.WithLabelValues(protocol.MsgPlayerList).Inc()
}

// broadcastBills pushes the bill log to every live connection in the room,
// composing each viewer's snapshot so the self-funding visibility rule is
// applied per receiver. Callers must hold the room lock.
func (s *Service) broadcastBills(room *models.Room) {
	for _, p := range room.Players {
		if p.Conn == nil {
			continue
		}
		msg := protocol.NewBills(room.VisibleBills(p.Username, p.SelfFunding))
		if err := p.Conn.Send(msg); err != nil {
			slog.Debug("broadcast skipped", "room", room.Name, "username", p.Username, "error", err)
		}
	}
	metrics.BroadcastsTotal.WithLabelValues(protocol.MsgBills).Inc()
}
