package ui

import "fmt"

// Localization manages the bot's user-facing texts
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// DefaultLanguage is used when a key is missing in the current language
const DefaultLanguage = "en"

// Text keys for localization
const (
	KeyLinkNotSupported   = "link_not_supported"
	KeySomethingWrong     = "something_wrong"
	KeyButtonTimeout      = "button_timeout"
	KeyCancelled          = "cancelled"
	KeyFormTimeout        = "form_timeout"
	KeyInvalidTimes       = "invalid_times"
	KeyInvalidLabel       = "invalid_label"
	KeyInvalidVolumeFade  = "invalid_volume_fade"
	KeyInvalidStart       = "invalid_start"
	KeyInvalidEnd         = "invalid_end"
	KeyStartAfterEnd      = "start_after_end"
	KeyFileTooBig         = "file_too_big"
	KeyDownloadFailed     = "download_failed"
	KeyDownloadTimeout    = "download_timeout"
	KeyConvertFailed      = "convert_failed"
	KeyConvertTimeout     = "convert_timeout"
	KeyAdded              = "added"
	KeyNoSoundFiles       = "no_sound_files"
	KeySelectSoundFile    = "select_sound_file"
	KeySelectTimeout      = "select_timeout"
	KeyRemoved            = "removed"
	KeyAlreadyRemoved     = "already_removed"
	KeyStarting           = "starting"
	KeyPanelTitle         = "panel_title"
	KeyPanelDescription   = "panel_description"
	KeyPackMessageUnset   = "pack_message_unset"
	KeyPackLinkUpdated    = "pack_link_updated"
	KeyPackLinkContent    = "pack_link_content"
	KeyNotSoundFile       = "not_sound_file"
	KeyNotPackChannel     = "not_pack_channel"
	KeyCommandsSent       = "commands_sent"
	KeyCommandsContent    = "commands_content"
	KeyPromptExpired      = "prompt_expired"
	KeyNotAllowed         = "not_allowed"
	KeyModalClosed        = "modal_closed"
	KeyPong               = "pong"
	KeyConnected          = "connected"
	KeyAddSoundFile       = "add_sound_file"
	KeyCancel             = "cancel"
	KeyUploadFromYouTube  = "upload_from_youtube"
	KeyRemoveSoundFile    = "remove_sound_file"
	KeyChooseSoundFile    = "choose_sound_file"
	KeySettingsFormTitle  = "settings_form_title"
	KeyEventName          = "event_name"
	KeyStartTime          = "start_time"
	KeyEndTime            = "end_time"
	KeyMaxEndTime         = "max_end_time"
	KeyVolume             = "volume"
	KeyFade               = "fade"
	KeyURL                = "url"
	KeyDuration           = "duration"
	KeySize               = "size"
	KeyFormat             = "format"
	KeyViews              = "views"
	KeyPercentage         = "percentage"
	KeySpeed              = "speed"
	KeyTimeRemaining      = "time_remaining"
	KeyStatus             = "status"
	KeyConverting         = "converting"
	KeyDownloadedBytes    = "downloaded_bytes"
	KeyElapsed            = "elapsed"
	KeyInternalError      = "internal_error"
	KeyManageUserRequired = "manage_user_required"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: DefaultLanguage,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to the default language
	if texts, exists := l.texts[DefaultLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// Textf returns localized text for the given key formatted with args
func (l *Localization) Textf(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyLinkNotSupported:   "The [link](%s) is not supported.",
		KeySomethingWrong:     "Something went wrong while processing the [link](%s).",
		KeyButtonTimeout:      "You did not select a button in time.",
		KeyCancelled:          "You cancelled the process.",
		KeyFormTimeout:        "You did not fill in the form in time.",
		KeyInvalidTimes:       "The start time or the end time is invalid.",
		KeyInvalidLabel:       "The event name is invalid.",
		KeyInvalidVolumeFade:  "The volume or the fade duration is invalid.",
		KeyInvalidStart:       "The start time is invalid.",
		KeyInvalidEnd:         "The end time is invalid.",
		KeyStartAfterEnd:      "The start time is greater than the end time.",
		KeyFileTooBig:         "File size must be less than **%s**.",
		KeyDownloadFailed:     "The download failed.",
		KeyDownloadTimeout:    "The download did not finish in time.",
		KeyConvertFailed:      "The conversion of the sound file failed.",
		KeyConvertTimeout:     "The conversion did not finish in time.",
		KeyAdded:              "Added [Sound file](%s) to the pack.",
		KeyNoSoundFiles:       "There are no sound files in the pack.",
		KeySelectSoundFile:    "<@%s>, Please select a sound file to remove.",
		KeySelectTimeout:      "You did not choose a sound file in time.",
		KeyRemoved:            "`%s` was successfully removed.",
		KeyAlreadyRemoved:     "`%s` is no longer in the pack.",
		KeyStarting:           "Starting the pack managing process for <@%s>",
		KeyPanelTitle:         "Manage the ressource pack",
		KeyPanelDescription:   "This system is for managing the server's ressource pack, adding or removing sounds.",
		KeyPackMessageUnset:   "`PACK_MESSAGE_ID` is not set.",
		KeyPackLinkUpdated:    "The [ressource pack link](%s) was successfully updated.",
		KeyPackLinkContent:    IconBullet + " **Ressource pack**\n%s\n" + IconBullet + " **Sha1**\n`%s`",
		KeyNotSoundFile:       "This command can only be used on a sound file.",
		KeyNotPackChannel:     "This command can only be used in the ressource pack channel.",
		KeyCommandsSent:       "The commands were successfully sent to your [DM](%s).",
		KeyCommandsContent:    IconBullet + " **Test the sound**\n%s\n" + IconBullet + " **Link to a region**\n%s",
		KeyPromptExpired:      "This prompt has expired.",
		KeyNotAllowed:         "You are not allowed to use this command.",
		KeyModalClosed:        "Modal closed.",
		KeyPong:               "Pong! (%d ms)",
		KeyConnected:          "Connected " + IconPartyingFace,
		KeyAddSoundFile:       "Add sound file",
		KeyCancel:             "Cancel",
		KeyUploadFromYouTube:  "Upload from YouTube",
		KeyRemoveSoundFile:    "Remove a sound file",
		KeyChooseSoundFile:    "Choose a sound file...",
		KeySettingsFormTitle:  "Video download settings",
		KeyEventName:          "Minecraft event name",
		KeyStartTime:          "Start time",
		KeyEndTime:            "End time",
		KeyMaxEndTime:         "Maximum end time: %s",
		KeyVolume:             "Volume",
		KeyFade:               "Fade (ms)",
		KeyURL:                "URL",
		KeyDuration:           "Duration",
		KeySize:               "Size",
		KeyFormat:             "Format",
		KeyViews:              "%s views",
		KeyPercentage:         "Percentage",
		KeySpeed:              "Speed",
		KeyTimeRemaining:      "Time remaining",
		KeyStatus:             "Status",
		KeyConverting:         "Converting %s",
		KeyDownloadedBytes:    "Downloaded bytes",
		KeyElapsed:            "Elapsed",
		KeyInternalError:      "An unexpected error occurred.",
		KeyManageUserRequired: "A user is required.",
	}
}
