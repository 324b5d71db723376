package model

// EntityType identifies a syncable entity collection. The sync bridge and
// the remote store key every change by (EntityType, ID).
type EntityType string

const (
	EntityUser          EntityType = "user"
	EntityTask          EntityType = "task"
	EntityTicket        EntityType = "ticket"
	EntityReward        EntityType = "reward"
	EntityVaultItem     EntityType = "vault_item"
	EntityGuestPass     EntityType = "guest_pass"
	EntityRecurringCost EntityType = "recurring_cost"
	EntitySmartScene    EntityType = "smart_scene"
)

// EntityTypes lists every syncable collection, in a fixed order used for
// hydration and export.
var EntityTypes = []EntityType{
	EntityUser,
	EntityTask,
	EntityTicket,
	EntityReward,
	EntityVaultItem,
	EntityGuestPass,
	EntityRecurringCost,
	EntitySmartScene,
}
