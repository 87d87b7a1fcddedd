package dragonfly

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/dokzlo13/torchlight/internal/eventbus"
)

// Handler publishes the player events that can change whether a qualifying item is held.
// Dragonfly fires these before the inventory changes, so consumers must resync later, not
// inline.
type Handler struct {
	player.NopHandler

	host *Host
	bus  *eventbus.Bus
}

// NewHandler creates a handler for one player.
func NewHandler(host *Host, bus *eventbus.Bus) *Handler {
	return &Handler{host: host, bus: bus}
}

// Compile-time check that Handler implements player.Handler.
var _ player.Handler = (*Handler)(nil)

func (h *Handler) HandleItemPickup(ctx *player.Context, _ *item.Stack) {
	h.inventoryChanged(ctx.Val().UUID(), "item_pickup")
}

func (h *Handler) HandleItemDrop(ctx *player.Context, _ item.Stack) {
	h.inventoryChanged(ctx.Val().UUID(), "item_drop")
}

func (h *Handler) HandleHeldSlotChange(ctx *player.Context, _, _ int) {
	h.inventoryChanged(ctx.Val().UUID(), "held_slot_change")
}

func (h *Handler) HandleBlockPlace(ctx *player.Context, _ cube.Pos, _ world.Block) {
	h.inventoryChanged(ctx.Val().UUID(), "block_place")
}

func (h *Handler) HandleItemConsume(ctx *player.Context, _ item.Stack) {
	h.inventoryChanged(ctx.Val().UUID(), "item_consume")
}

func (h *Handler) HandleRespawn(p *player.Player, _ *mgl64.Vec3, _ **world.World) {
	h.inventoryChanged(p.UUID(), "respawn")
}

// HandleQuit forgets the session. The host's leave hooks purge the player's state inline,
// never through the bus, so a saturated queue cannot leak it.
func (h *Handler) HandleQuit(p *player.Player) {
	h.host.Leave(p.UUID())
}

func (h *Handler) inventoryChanged(id uuid.UUID, source string) {
	h.bus.Publish(eventbus.Event{Type: eventbus.EventTypeInventoryChanged, Player: id, Source: source})
}
