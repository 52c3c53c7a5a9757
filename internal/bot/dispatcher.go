// Package bot maps chat commands to handlers and turns every outcome,
// including failures, into a reply for the sender.
package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCommand   = errors.New("invalid command")
	ErrDuplicateCommand = errors.New("duplicate command")
)

// Unlimited as MaxArgs accepts any number of arguments.
const Unlimited = -1

// Request is one inbound command invocation.
type Request struct {
	ChatID int64
	// UserID identifies the sender; alerts are keyed by it.
	UserID int64
	Text   string
}

// Reply is one outbound message. Image, when set, is sent as a PNG photo
// with Text as its caption.
type Reply struct {
	Text  string
	HTML  bool
	Image []byte
}

// Response is the ordered list of replies to one request.
type Response struct {
	Replies []Reply
}

func (r *Response) add(reply Reply) { r.Replies = append(r.Replies, reply) }

func textResponse(text string) Response {
	return Response{Replies: []Reply{{Text: text}}}
}

// Handler runs a command with its arguments. Arity is checked before it is called.
type Handler func(ctx context.Context, req Request, args []string) (Response, error)

// Command is one entry of the command table.
type Command struct {
	Name        string
	Description string
	// Usage is the argument synopsis, e.g. "<sembol> <fiyat>".
	Usage   string
	Example string
	MinArgs int
	MaxArgs int
	Handler Handler
}

func (c Command) usageHint() string {
	hint := fmt.Sprintf("⚠ Lütfen doğru formatta girin: /%s %s", c.Name, c.Usage)
	if c.Example != "" {
		hint += fmt.Sprintf(" (örn. %s)", c.Example)
	}
	return strings.TrimSpace(hint)
}

var commandName = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// Dispatcher routes requests to registered commands.
type Dispatcher struct {
	commands map[string]Command
	order    []string
	log      *logrus.Entry

	// OnCommand, when set, observes every dispatched command and its outcome.
	OnCommand func(command, outcome string)
}

func NewDispatcher(log *logrus.Entry) *Dispatcher {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Dispatcher{commands: make(map[string]Command), log: log.WithField("component", "bot")}
}

// Register adds c to the table after checking it against the platform's
// command rules.
func (d *Dispatcher) Register(c Command) error {
	switch {
	case !commandName.MatchString(c.Name):
		return fmt.Errorf("%w: name %q", ErrInvalidCommand, c.Name)
	case c.Description == "" || len(c.Description) > 256:
		return fmt.Errorf("%w: %s: description must be 1-256 bytes", ErrInvalidCommand, c.Name)
	case c.MinArgs < 0:
		return fmt.Errorf("%w: %s: negative MinArgs", ErrInvalidCommand, c.Name)
	case c.MaxArgs != Unlimited && c.MaxArgs < c.MinArgs:
		return fmt.Errorf("%w: %s: MaxArgs below MinArgs", ErrInvalidCommand, c.Name)
	case c.Handler == nil:
		return fmt.Errorf("%w: %s: nil handler", ErrInvalidCommand, c.Name)
	}
	if _, ok := d.commands[c.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, c.Name)
	}
	d.commands[c.Name] = c
	d.order = append(d.order, c.Name)
	return nil
}

// Commands returns the table in registration order.
func (d *Dispatcher) Commands() []Command {
	out := make([]Command, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.commands[name])
	}
	return out
}

// Parse splits "/Name@bot a b" into "name", "bot" and [a b].
// ok is false when text is not a command.
func Parse(text string) (name, mention string, args []string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", "", nil, false
	}
	head := strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(head, '@'); i >= 0 {
		head, mention = head[:i], head[i+1:]
	}
	if head == "" {
		return "", "", nil, false
	}
	return strings.ToLower(head), mention, fields[1:], true
}

// Dispatch runs the command in req.Text. Every command request gets at least
// one reply; text that is not a command gets none.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (resp Response) {
	name, _, args, ok := Parse(req.Text)
	if !ok {
		return Response{}
	}
	cmd, found := d.commands[name]
	if !found {
		d.observe("unknown", outcomeUnknown)
		return textResponse(msgUnknownCommand)
	}

	log := d.log.WithFields(logrus.Fields{"command": name, "chat": req.ChatID, "user": req.UserID})
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("command panicked")
			d.observe(name, outcomePanic)
			resp = textResponse(msgInternalError)
		}
	}()

	if len(args) < cmd.MinArgs || (cmd.MaxArgs != Unlimited && len(args) > cmd.MaxArgs) {
		d.observe(name, outcomeUsage)
		return textResponse(cmd.usageHint())
	}

	resp, err := cmd.Handler(ctx, req, args)
	if err != nil {
		text, outcome := translate(err)
		entry := log.WithError(err).WithField("args", args)
		if outcome == outcomeInvalid {
			entry.Debug("command rejected")
		} else {
			entry.Warn("command failed")
		}
		resp.add(Reply{Text: text})
		d.observe(name, outcome)
		return resp
	}
	if len(resp.Replies) == 0 {
		resp = textResponse(msgDone)
	}
	d.observe(name, outcomeOK)
	return resp
}

func (d *Dispatcher) observe(command, outcome string) {
	if d.OnCommand != nil {
		d.OnCommand(command, outcome)
	}
}
