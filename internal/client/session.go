package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/hanabot/internal/protocol"
	"github.com/lox/hanabot/internal/state"
)

// gameOver carries the final score out of the turn loop
type gameOver struct {
	score int
}

func (g gameOver) Error() string {
	return fmt.Sprintf("game over with score %d", g.score)
}

// Run joins the lobby, waits for the game to start and plays Games games.
// The connection must already be open.
func (c *Client) Run(ctx context.Context) error {
	if err := c.join(ctx); err != nil {
		return err
	}
	if err := c.startRequest(ctx); err != nil {
		return err
	}
	if err := c.waitStart(ctx); err != nil {
		return err
	}

	for game := 1; game <= c.cfg.Games; game++ {
		score, err := c.playGame(ctx)
		if err != nil {
			return fmt.Errorf("game %d: %w", game, err)
		}
		c.logger.Info("Game finished", "game", game, "of", c.cfg.Games, "score", score)
	}
	return nil
}

func (c *Client) join(ctx context.Context) error {
	if err := c.request(protocol.TypePlayerAdd, protocol.PlayerAdd{Name: c.agent.Name()}); err != nil {
		return err
	}
	if _, err := c.expect(ctx, protocol.TypeConnectionOK); err != nil {
		return fmt.Errorf("joining lobby: %w", err)
	}
	c.logger.Info("Connection accepted, waiting in lobby")
	return nil
}

func (c *Client) startRequest(ctx context.Context) error {
	if err := c.request(protocol.TypeStartRequest, protocol.StartRequest{Name: c.agent.Name()}); err != nil {
		return err
	}
	msg, err := c.expect(ctx, protocol.TypeStartRequestAccepted)
	if err != nil {
		return fmt.Errorf("requesting start: %w", err)
	}
	var accepted protocol.StartRequestAccepted
	if err := msg.Decode(&accepted); err != nil {
		return err
	}
	c.logger.Info("Players ready", "ready", accepted.AcceptedStartRequests, "connected", accepted.ConnectedPlayers)
	return nil
}

// waitStart skips lobby chatter until start_game, then confirms with ready
func (c *Client) waitStart(ctx context.Context) error {
	for {
		msg, err := c.next(ctx)
		if err != nil {
			return fmt.Errorf("waiting for start: %w", err)
		}
		if msg.Type != protocol.TypeStartGame {
			c.logger.Debug("Ignoring lobby message", "type", msg.Type)
			continue
		}
		return c.request(protocol.TypeReady, protocol.Ready{Name: c.agent.Name()})
	}
}

// playGame runs one game to game_over and returns its score
func (c *Client) playGame(ctx context.Context) (int, error) {
	snap, err := c.fetchState(ctx)
	if err != nil {
		return c.finish(err)
	}
	if err := c.agent.Begin(snap); err != nil {
		return 0, err
	}

	for {
		if snap.CurrentPlayer == c.agent.Name() {
			if err := c.act(); err != nil {
				return 0, err
			}
		} else {
			c.logger.Debug("Waiting for teammate", "current", snap.CurrentPlayer)
		}

		msg, err := c.next(ctx)
		if err != nil {
			return 0, err
		}
		if err := checkTerminal(msg); err != nil {
			return c.finish(err)
		}
		result, err := protocol.ResultFromMessage(msg)
		if err != nil {
			return 0, err
		}
		c.logger.Info("Action result", "result", result.String())

		snap, err = c.fetchState(ctx)
		if err != nil {
			return c.finish(err)
		}
		if err := c.agent.Observe(result, snap); err != nil {
			return 0, err
		}
	}
}

func (c *Client) act() error {
	d, err := c.agent.NextAction()
	if err != nil {
		return err
	}
	msg, err := protocol.RequestFromAction(d.Action)
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

// finish turns a game_over into a recorded score and passes other errors through
func (c *Client) finish(err error) (int, error) {
	var over gameOver
	if !errors.As(err, &over) {
		return 0, err
	}
	c.agent.Finish(over.score)
	return over.score, nil
}

// fetchState asks for a snapshot and waits for it, skipping broadcasts that
// arrive in between
func (c *Client) fetchState(ctx context.Context) (state.Snapshot, error) {
	if err := c.request(protocol.TypeGetGameState, protocol.GetGameState{Name: c.agent.Name()}); err != nil {
		return state.Snapshot{}, err
	}
	for {
		msg, err := c.next(ctx)
		if err != nil {
			return state.Snapshot{}, fmt.Errorf("fetching state: %w", err)
		}
		if err := checkTerminal(msg); err != nil {
			return state.Snapshot{}, err
		}
		if msg.Type != protocol.TypeGameState {
			c.logger.Debug("Skipping message while fetching state", "type", msg.Type)
			continue
		}
		var g protocol.GameState
		if err := msg.Decode(&g); err != nil {
			return state.Snapshot{}, err
		}
		return g.Snapshot(c.agent.Name())
	}
}

// expect reads the next message and requires it to be of type t
func (c *Client) expect(ctx context.Context, t protocol.MessageType) (*protocol.Message, error) {
	msg, err := c.next(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkTerminal(msg); err != nil {
		return nil, err
	}
	if msg.Type != t {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrUnexpectedMessage, msg.Type, t)
	}
	return msg, nil
}

// checkTerminal maps the messages that end a turn loop to errors
func checkTerminal(msg *protocol.Message) error {
	switch msg.Type {
	case protocol.TypeActionInvalid:
		var data protocol.ActionInvalid
		_ = msg.Decode(&data)
		return fmt.Errorf("%w: %s", ErrActionRejected, data.Message)
	case protocol.TypeInvalidData:
		var data protocol.InvalidData
		_ = msg.Decode(&data)
		return fmt.Errorf("%w: invalid data %s", ErrActionRejected, data.Data)
	case protocol.TypeGameOver:
		var data protocol.GameOver
		if err := msg.Decode(&data); err != nil {
			return err
		}
		return gameOver{score: data.Score}
	default:
		return nil
	}
}
