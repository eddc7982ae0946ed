package debrief

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	ErrComplete      = errors.New("debrief: conversation is complete")
	ErrUnknownOption = errors.New("debrief: unknown option")
)

type Speaker int

const (
	Bot Speaker = iota
	User
)

func (s Speaker) String() string {
	if s == User {
		return "user"
	}
	return "bot"
}

type Message struct {
	Speaker Speaker
	Text    string
}

// SessionMarker records that a session's debrief is done.
type SessionMarker interface {
	MarkDebriefComplete(sessionID string) error
}

type Option func(*Conversation)

// WithSession binds the conversation to a session; reaching the end marks
// that session through m.
func WithSession(sessionID string, m SessionMarker) Option {
	return func(c *Conversation) {
		c.sessionID = sessionID
		c.marker = m
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Conversation) {
		if l != nil {
			c.log = l
		}
	}
}

// Conversation walks a Script one choice at a time.
type Conversation struct {
	script    *Script
	current   string
	messages  []Message
	complete  bool
	sessionID string
	marker    SessionMarker
	log       *zap.Logger
}

// Start opens a conversation at the script's start node.
func Start(script *Script, opts ...Option) *Conversation {
	c := &Conversation{script: script, current: script.Start, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if n, ok := script.Node(script.Start); ok {
		c.messages = append(c.messages, Message{Speaker: Bot, Text: n.Message})
		if len(n.Options) == 0 {
			c.complete = true
		}
	}
	return c
}

// Choose answers the current node with the option id. Reaching a node with
// no options completes the conversation. A link to a missing node also
// completes it, without a bot reply.
func (c *Conversation) Choose(optionID string) error {
	if c.complete {
		return ErrComplete
	}
	node, _ := c.script.Node(c.current)
	var choice *Choice
	for i := range node.Options {
		if node.Options[i].ID == optionID {
			choice = &node.Options[i]
			break
		}
	}
	if choice == nil {
		return fmt.Errorf("%w: %q at node %q", ErrUnknownOption, optionID, c.current)
	}

	c.messages = append(c.messages, Message{Speaker: User, Text: choice.Label})
	next, ok := c.script.Node(choice.Next)
	if !ok {
		c.log.Warn("debrief link to unknown node, ending conversation",
			zap.String("node", c.current),
			zap.String("option", optionID),
			zap.String("next", choice.Next))
		return c.finish()
	}
	c.messages = append(c.messages, Message{Speaker: Bot, Text: next.Message})
	c.current = next.ID
	if len(next.Options) == 0 {
		return c.finish()
	}
	return nil
}

func (c *Conversation) finish() error {
	c.complete = true
	if c.sessionID == "" || c.marker == nil {
		return nil
	}
	if err := c.marker.MarkDebriefComplete(c.sessionID); err != nil {
		return fmt.Errorf("debrief: mark session %s: %w", c.sessionID, err)
	}
	c.log.Info("debrief completed", zap.String("session", c.sessionID))
	return nil
}

// Options lists the answers available now; none once complete.
func (c *Conversation) Options() []Choice {
	if c.complete {
		return nil
	}
	n, _ := c.script.Node(c.current)
	return append([]Choice(nil), n.Options...)
}

// Messages returns the transcript so far.
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

func (c *Conversation) Complete() bool { return c.complete }

// Current is the id of the node last reached.
func (c *Conversation) Current() string { return c.current }

func (c *Conversation) SessionID() string { return c.sessionID }
