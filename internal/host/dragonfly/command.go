package dragonfly

import (
	"errors"
	"strings"

	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/torchlight/internal/brightness"
	"github.com/dokzlo13/torchlight/internal/light"
)

const clearArg = "clear"

// ErrUsage is returned for arguments that cannot be parsed at all.
var ErrUsage = errors.New("usage")

// RegisterCommands registers /brightness (alias /bright).
func RegisterCommands(svc *brightness.Service, host *Host) {
	base := commandBase{svc: svc, host: host}
	cmd.Register(cmd.New("brightness", "Boost the light of a held torch.", []string{"bright"},
		ClearCommand{commandBase: base},
		StatusCommand{commandBase: base},
		TintCommand{commandBase: base},
		WarmthCommand{commandBase: base},
		SetCommand{commandBase: base},
	))
}

// commandBase carries the service into every runnable. Runnables execute inside the
// player's world transaction, so they reconcile through an inline host.
type commandBase struct {
	svc  *brightness.Service
	host *Host
}

// Allow restricts the command to players.
func (commandBase) Allow(src cmd.Source) bool {
	_, ok := src.(*player.Player)
	return ok
}

func (b commandBase) inline(src cmd.Source, o *cmd.Output) (*player.Player, *brightness.Service, bool) {
	p, ok := src.(*player.Player)
	if !ok {
		o.Error("This command can only be used by players.")
		return nil, nil, false
	}
	return p, b.svc.WithHost(brightness.Inline{Components: b.host.Components(p)}), true
}

func report(p *player.Player, o *cmd.Output, err error) {
	if err == nil {
		return
	}
	log.Debug().Err(err).Str("player", p.UUID().String()).Msg("Brightness command failed")
	o.Error(brightness.ErrorMessage(err))
}

// SetCommand is /brightness [value]. Without a value it clears the boost.
type SetCommand struct {
	commandBase
	Value cmd.Optional[float64] `cmd:"value"`
}

func (c SetCommand) Run(src cmd.Source, o *cmd.Output, _ *world.Tx) {
	p, svc, ok := c.inline(src, o)
	if !ok {
		return
	}
	var value *float32
	if v, set := c.Value.Load(); set {
		f := float32(v)
		value = &f
	}
	report(p, o, svc.SetBrightness(p.UUID(), value))
}

// ClearCommand is /brightness clear.
type ClearCommand struct {
	commandBase
	Clear cmd.SubCommand `cmd:"clear"`
}

func (c ClearCommand) Run(src cmd.Source, o *cmd.Output, _ *world.Tx) {
	p, svc, ok := c.inline(src, o)
	if !ok {
		return
	}
	report(p, o, svc.SetBrightness(p.UUID(), nil))
}

// StatusCommand is /brightness status.
type StatusCommand struct {
	commandBase
	Status cmd.SubCommand `cmd:"status"`
}

func (c StatusCommand) Run(src cmd.Source, o *cmd.Output, _ *world.Tx) {
	p, ok := src.(*player.Player)
	if !ok {
		o.Error("This command can only be used by players.")
		return
	}
	o.Print(c.svc.Status(p.UUID()).String())
}

// TintCommand is /brightness tint <rgb|clear>.
type TintCommand struct {
	commandBase
	Tint  cmd.SubCommand `cmd:"tint"`
	Value string         `cmd:"rgb"`
}

func (c TintCommand) Run(src cmd.Source, o *cmd.Output, _ *world.Tx) {
	p, svc, ok := c.inline(src, o)
	if !ok {
		return
	}
	rgb, err := ParseTintArg(c.Value)
	if err != nil {
		o.Errorf("Invalid tint %q. Use #RRGGBB, r,g,b or clear.", c.Value)
		return
	}
	report(p, o, svc.SetTint(p.UUID(), rgb))
}

// WarmthCommand is /brightness warmth <0..1|clear>.
type WarmthCommand struct {
	commandBase
	Warmth cmd.SubCommand `cmd:"warmth"`
	Value  string         `cmd:"value"`
}

func (c WarmthCommand) Run(src cmd.Source, o *cmd.Output, _ *world.Tx) {
	p, svc, ok := c.inline(src, o)
	if !ok {
		return
	}
	warmth, err := ParseWarmthArg(c.Value)
	if err != nil {
		o.Errorf("Invalid warmth %q. Use a number from 0 to 1 or clear.", c.Value)
		return
	}
	report(p, o, svc.SetWarmth(p.UUID(), warmth))
}

// ParseTintArg parses a tint argument. "clear" yields nil.
func ParseTintArg(s string) (*light.RGB, error) {
	if strings.EqualFold(strings.TrimSpace(s), clearArg) {
		return nil, nil
	}
	rgb, err := light.ParseRGB(s)
	if err != nil {
		return nil, errors.Join(ErrUsage, err)
	}
	return &rgb, nil
}

// ParseWarmthArg parses a warmth argument. "clear" yields nil.
func ParseWarmthArg(s string) (*float32, error) {
	if strings.EqualFold(strings.TrimSpace(s), clearArg) {
		return nil, nil
	}
	v, err := brightness.ParseLevel(s)
	if err != nil {
		return nil, errors.Join(ErrUsage, err)
	}
	return &v, nil
}
