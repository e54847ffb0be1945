// A random-policy websocket client: connects, resets, and samples legal
// actions from each OBS's action mask until the episode ends. Useful as a
// smoke test against a running server.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/gorilla/websocket"

	"pitchcraft.ai/internal/protocol"
)

func main() {
	var (
		url      = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name     = flag.String("name", "bot", "agent name")
		scenario = flag.String("scenario", "academy_3_vs_1_with_keeper", "scenario name")
		episodes = flag.Int("episodes", 1, "episodes to play")
		seed     = flag.Int64("seed", 1337, "reset seed (also seeds the policy)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	rng := rand.New(rand.NewSource(*seed))

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		AgentName:       *name,
		Config: protocol.EnvConfig{
			Scenario:       *scenario,
			Representation: "simplev1",
		},
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	var welcome protocol.WelcomeMsg
	if err := readAs(conn, protocol.TypeWelcome, &welcome); err != nil {
		logger.Fatalf("WELCOME: %v", err)
	}
	logger.Printf("WELCOME session=%s scenario=%s actions=%d", welcome.SessionID, welcome.Env.Scenario, welcome.Env.ActionCount)

	for ep := 0; ep < *episodes; ep++ {
		s := *seed + int64(ep)
		reset := protocol.ResetMsg{Type: protocol.TypeReset, ProtocolVersion: protocol.Version, Seed: &s}
		if err := conn.WriteJSON(reset); err != nil {
			logger.Fatalf("send RESET: %v", err)
		}
		var obs protocol.ObsMsg
		if err := readAs(conn, protocol.TypeObs, &obs); err != nil {
			logger.Fatalf("OBS: %v", err)
		}

		steps, total := 0, 0.0
		for !obs.Done {
			act := protocol.ActMsg{
				Type:            protocol.TypeAct,
				ProtocolVersion: protocol.Version,
				Actions:         map[string]int{},
			}
			for h, a := range obs.Agents {
				act.Actions[h] = sampleLegal(rng, a.ActionMask, welcome.Env.ActionCount)
			}
			if err := conn.WriteJSON(act); err != nil {
				logger.Fatalf("send ACT: %v", err)
			}
			if err := readAs(conn, protocol.TypeObs, &obs); err != nil {
				logger.Fatalf("OBS: %v", err)
			}
			steps++
			for _, a := range obs.Agents {
				total += a.Reward
			}
		}
		logger.Printf("episode %d done steps=%d reward_sum=%.2f", ep, steps, total)
	}
}

func sampleLegal(rng *rand.Rand, mask []bool, n int) int {
	if len(mask) == 0 {
		return rng.Intn(n)
	}
	legal := make([]int, 0, len(mask))
	for i, ok := range mask {
		if ok {
			legal = append(legal, i)
		}
	}
	if len(legal) == 0 {
		return 0
	}
	return legal[rng.Intn(len(legal))]
}

func readAs(conn *websocket.Conn, want string, v any) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		if base.Type == protocol.TypeError {
			var e protocol.ErrorMsg
			_ = json.Unmarshal(msg, &e)
			log.Fatalf("server error %s: %s", e.Code, e.Message)
		}
		if base.Type != want {
			continue
		}
		return json.Unmarshal(msg, v)
	}
}
