// Package ws serves environments over websocket: one session is one
// exclusively owned environment instance, driven RESET/ACT -> OBS in strict
// request-response order, matching the adapter's synchronous contract.
package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pitchcraft.ai/internal/engine"
	"pitchcraft.ai/internal/engine/scrim"
	"pitchcraft.ai/internal/env"
	"pitchcraft.ai/internal/protocol"
	"pitchcraft.ai/internal/scenario"
)

// EngineFactory builds one fresh engine handle per session.
type EngineFactory func() engine.Engine

type Server struct {
	log     *log.Logger
	engines EngineFactory

	upgrader websocket.Upgrader
}

func NewServer(logger *log.Logger, engines EngineFactory) *Server {
	if engines == nil {
		engines = func() engine.Engine { return scrim.New() }
	}
	return &Server{
		log:     logger,
		engines: engines,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sess := s.handshake(conn)
		if sess == nil {
			return
		}
		s.log.Printf("session %s open scenario=%s agents=%d", sess.id, sess.env.Config().Scenario, len(sess.env.Agents()))
		sess.run(conn)
		s.log.Printf("session %s closed", sess.id)
	}
}

type session struct {
	id  string
	log *log.Logger
	env *env.ParallelEnv
}

func (s *Server) handshake(conn *websocket.Conn) *session {
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}
	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closePolicy(conn, "expected HELLO")
		return nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		closePolicy(conn, "bad HELLO")
		return nil
	}
	if hello.ProtocolVersion != protocol.Version {
		closePolicy(conn, "bad protocol_version")
		return nil
	}

	cfg, err := configFromWire(hello.Config)
	if err != nil {
		writeErr(conn, protocol.ErrProtoBadRequest, err.Error())
		return nil
	}
	e, err := env.New(cfg, s.engines())
	if err != nil {
		writeErr(conn, protocol.ErrBadScenario, err.Error())
		return nil
	}

	sess := &session{id: uuid.NewString(), log: s.log, env: e}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sess.id,
		Env:             envParams(e.Config()),
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(welcome); err != nil {
		return nil
	}
	return sess
}

// envParams derives the session's fixed geometry from the scenario so
// clients can size policy inputs before the first observation. Episode-0
// placement is representative: roster sizes never vary between episodes.
func envParams(cfg env.Config) protocol.EnvParams {
	p := protocol.EnvParams{
		Scenario:       cfg.Scenario,
		Representation: cfg.Representation.String(),
		ActionCount:    engine.ActionCount,
		EpisodeLength:  cfg.EpisodeLength,
	}
	builder, err := scenario.Resolve(cfg.Scenario)
	if err != nil {
		return p
	}
	spec := builder(0)
	n0 := cfg.LeftControlled
	if n0 == 0 || n0 > spec.ControllableLeft() {
		n0 = spec.ControllableLeft()
	}
	p.Agents = n0
	if cfg.Representation == env.RepSimpleV1 {
		ec := env.EncoderConfig{LeftCount: len(spec.Left), RightCount: len(spec.Right), Controlled: n0}
		p.AgentDim = ec.AgentDim()
		p.StateDim = ec.StateDim()
	}
	return p
}

func configFromWire(w protocol.EnvConfig) (env.Config, error) {
	rep, err := env.ParseRepresentation(w.Representation)
	if err != nil {
		return env.Config{}, err
	}
	return env.Config{
		Scenario:          w.Scenario,
		Representation:    rep,
		LeftControlled:    w.LeftControlled,
		RightControlled:   w.RightControlled,
		EpisodeLength:     w.EpisodeLength,
		DisableActionMask: w.DisableActionMask,
		Rewards:           w.Rewards,
	}, nil
}

func (s *session) run(conn *websocket.Conn) {
	for {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			writeErr(conn, protocol.ErrProtoBadRequest, "bad json")
			continue
		}

		switch base.Type {
		case protocol.TypeReset:
			var req protocol.ResetMsg
			if err := json.Unmarshal(msg, &req); err != nil {
				writeErr(conn, protocol.ErrProtoBadRequest, "bad RESET")
				continue
			}
			obs, infos, err := s.env.Reset(req.Seed)
			if err != nil {
				s.fail(conn, err)
				continue
			}
			s.sendObs(conn, obs, nil, nil, nil, infos)

		case protocol.TypeAct:
			var req protocol.ActMsg
			if err := json.Unmarshal(msg, &req); err != nil {
				writeErr(conn, protocol.ErrProtoBadRequest, "bad ACT")
				continue
			}
			actions := make(map[string]engine.Action, len(req.Actions))
			for h, a := range req.Actions {
				actions[h] = engine.Action(a)
			}
			out, err := s.env.Step(actions)
			if err != nil {
				s.fail(conn, err)
				continue
			}
			s.sendObs(conn, out.Obs, out.Rewards, out.Terminations, out.Truncations, out.Infos)

		default:
			writeErr(conn, protocol.ErrProtoBadRequest, "unexpected message type: "+base.Type)
		}
	}
}

func (s *session) sendObs(conn *websocket.Conn, obs map[string][]float32, rewards map[string]float64,
	terms, truncs map[string]bool, infos map[string]env.Info) {
	agents := make(map[string]protocol.AgentObs, len(obs))
	done := false
	var state []float32
	for h, o := range obs {
		info := infos[h]
		a := protocol.AgentObs{
			Obs:        o,
			ActionMask: info.ActionMask,
			ScoreLeft:  info.ScoreLeft,
			ScoreRight: info.ScoreRight,
		}
		if rewards != nil {
			a.Reward = rewards[h]
		}
		if terms != nil {
			a.Terminated = terms[h]
			a.Truncated = truncs[h]
			done = done || a.Terminated || a.Truncated
		}
		agents[h] = a
		state = info.State
	}
	resp := protocol.ObsMsg{
		Type:            protocol.TypeObs,
		ProtocolVersion: protocol.Version,
		EpisodeID:       s.env.EpisodeID(),
		Step:            s.env.StepCount(),
		Agents:          agents,
		State:           state,
		Done:            done,
	}
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_ = conn.WriteJSON(resp)
}

func (s *session) fail(conn *websocket.Conn, err error) {
	writeErr(conn, codeFor(err), err.Error())
}

func codeFor(err error) string {
	var engErr *env.EngineError
	switch {
	case errors.Is(err, env.ErrAgentSetMismatch):
		return protocol.ErrAgentSetMismatch
	case errors.Is(err, env.ErrInvalidAgentIndex):
		return protocol.ErrInvalidAgentIndex
	case errors.Is(err, env.ErrEpisodeDone):
		return protocol.ErrEpisodeDone
	case errors.As(err, &engErr):
		return protocol.ErrEngine
	}
	return protocol.ErrInternal
}

func writeErr(conn *websocket.Conn, code, msg string) {
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_ = conn.WriteJSON(protocol.ErrorMsg{Type: protocol.TypeError, Code: code, Message: msg})
}

func closePolicy(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(time.Second))
}
