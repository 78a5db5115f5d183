package ui

// Package ui contains the platform-neutral user interface of the bot: messages,
// embeds, buttons, dropdowns and forms, plus the colour, emoji and text tables
// used to render them. Adapters translate these types to the chat platform.
