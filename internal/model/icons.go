package model

// Icon pairs an emoji with a display color for a given enum value. Clients
// read these instead of switching on the enum themselves, so the mapping
// lives in exactly one place.
type Icon struct {
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

var ticketIcons = map[TicketType]Icon{
	TicketComplaint: {Emoji: "😠", Color: "#EF4444"},
	TicketKudos:     {Emoji: "💚", Color: "#22C55E"},
	TicketPoll:      {Emoji: "🗳️", Color: "#3B82F6"},
}

var vaultIcons = map[VaultType]Icon{
	VaultWifi:  {Emoji: "📶", Color: "#3B82F6"},
	VaultPhone: {Emoji: "📞", Color: "#22C55E"},
	VaultIBAN:  {Emoji: "🏦", Color: "#8B5CF6"},
	VaultCode:  {Emoji: "🔢", Color: "#F59E0B"},
	VaultText:  {Emoji: "📝", Color: "#6B7280"},
}

var fallbackIcon = Icon{Emoji: "📌", Color: "#6B7280"}

// TicketIcon returns the display icon for a ticket type.
func TicketIcon(t TicketType) Icon {
	if ic, ok := ticketIcons[t]; ok {
		return ic
	}
	return fallbackIcon
}

// VaultIcon returns the display icon for a vault item type. An item with a
// CustomIcon overrides the emoji but keeps the type's color.
func VaultIcon(t VaultType, customIcon string) Icon {
	ic, ok := vaultIcons[t]
	if !ok {
		ic = fallbackIcon
	}
	if customIcon != "" {
		ic.Emoji = customIcon
	}
	return ic
}
