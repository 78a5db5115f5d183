package ui

import "github.com/ytget/soundpack/internal/format"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Colours
const (
	ColourBlue        = 0x0279FD
	ColourBrightGreen = format.ColourBrightGreen
	ColourDarkGreen   = 0x1F8B4C
	ColourLightBlue   = 0x68A4FF
	ColourOrange      = format.ColourOrange
	ColourRed         = format.ColourRed
	ColourSoftRed     = 0xCD6D6D
)

// Icons (emojis/symbols)
const (
	IconPartyingFace = "\U0001F973" // 🥳
	IconMusic        = "🎵"
	IconTools        = "\U0001F6E0" // 🛠
	IconLock         = "\U0001F512" // 🔒
	IconClock        = "\U0001F552"
	IconBullet       = "•"
)

// Images
const (
	ImageYouTube = "https://upload.wikimedia.org/wikipedia/commons/thumb/e/ec/" +
		"YouTube_play_button_circular_%282013-2017%29.svg/240px-YouTube_play_button_circular_" +
		"%282013-2017%29.svg.png"

	ImageDefaultThumbnail = "https://media.istockphoto.com/vectors/no-thumbnail-image-vector-graphic-vector-" +
		"id1147544806?k=20&m=1147544806&s=170667a&w=0&h=5rN3TBN7bwbhW_0WyTZ1wU_oW5Xhan2CNd-jlVVnwD0="
)

// Text fragments
const (
	UnknownPlaceholder = "..."
	FieldLineFormat    = IconBullet + " %s: **%s**"
)

// Platform limits
const (
	MaxSelectOptions = 25
	MaxLabelLength   = 100
)

// Persistent component IDs
const (
	PanelUploadID = "persistent_view:upload_sound_file"
	PanelRemoveID = "persistent_view:remove_sound_file"
	PanelFormID   = "persistent_view:upload_form"
	PanelURLField = "url"
)

// Spinner frames shown while a sound file is converted
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Settings form field IDs
const (
	FieldLabel  = "label"
	FieldStart  = "start"
	FieldEnd    = "end"
	FieldVolume = "volume"
	FieldFade   = "fade"
)
