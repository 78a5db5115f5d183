package ui

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ytget/soundpack/internal/format"
	"github.com/ytget/soundpack/internal/model"
)

var numberPrinter = message.NewPrinter(language.English)

// Line renders one "• Name: **value**" description line
func Line(name, value string) string {
	return fmt.Sprintf(FieldLineFormat, name, value)
}

// ErrorEmbed returns a red embed with the given description
func ErrorEmbed(description string) *Embed {
	return &Embed{Colour: ColourRed, Description: description}
}

// SuccessEmbed returns a bright green embed with the given description
func SuccessEmbed(description string) *Embed {
	return &Embed{Colour: ColourBrightGreen, Description: description}
}

// FormatCount renders an integer with thousands separators
func FormatCount(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// InfoEmbed describes the video behind link before the user confirms
func (l *Localization) InfoEmbed(meta *model.Metadata, link string) *Embed {
	thumbnail := meta.Thumbnail
	if thumbnail == "" {
		thumbnail = ImageDefaultThumbnail
	}

	size := UnknownPlaceholder
	if meta.Size > 0 {
		size = format.Bytes(meta.Size)
	}
	mediaFormat := meta.Format
	if mediaFormat == "" {
		mediaFormat = UnknownPlaceholder
	}

	return &Embed{
		Title:  meta.DisplayTitle(),
		URL:    link,
		Colour: ColourLightBlue,
		Description: strings.Join([]string{
			Line(l.GetText(KeyDuration), format.FormatClock(meta.Duration)),
			Line(l.GetText(KeySize), size),
			Line(l.GetText(KeyFormat), mediaFormat),
		}, "\n"),
		Thumbnail:  thumbnail,
		Footer:     l.Textf(KeyViews, FormatCount(meta.ViewCount)),
		FooterIcon: ImageYouTube,
		Timestamp:  meta.UploadDate,
	}
}

// ProgressEmbed shows the state of a download. A zero snapshot renders the
// initial placeholder embed.
func (l *Localization) ProgressEmbed(p model.Progress) *Embed {
	if p.Phase == "" || p.Phase == model.PhaseStarting {
		return &Embed{Description: strings.Join([]string{
			Line(l.GetText(KeyPercentage), UnknownPlaceholder),
			Line(l.GetText(KeySpeed), UnknownPlaceholder),
			Line(l.GetText(KeyTimeRemaining), UnknownPlaceholder),
		}, "\n")}
	}

	speed := UnknownPlaceholder
	if p.Speed > 0 {
		speed = format.FormatBytes(p.Speed, false, 2) + "/s"
	}

	return &Embed{
		Colour: ColourOrange,
		Description: strings.Join([]string{
			Line(l.GetText(KeyPercentage), p.PercentString()),
			Line(l.GetText(KeySpeed), speed),
			Line(l.GetText(KeyTimeRemaining), p.ETAString()),
		}, "\n"),
	}
}

// ConvertingEmbed shows the spinner frame while a sound file is converted
func (l *Localization) ConvertingEmbed(frame int) *Embed {
	spinner := SpinnerFrames[frame%len(SpinnerFrames)]
	return &Embed{
		Colour: ColourOrange,
		Description: strings.Join([]string{
			Line(l.GetText(KeyStatus), l.Textf(KeyConverting, spinner)),
			Line(l.GetText(KeySpeed), UnknownPlaceholder),
			Line(l.GetText(KeyTimeRemaining), UnknownPlaceholder),
		}, "\n"),
	}
}

// FinishedEmbed summarises a completed download and conversion
func (l *Localization) FinishedEmbed(p model.Progress, size int64) *Embed {
	status := p.Phase
	if status == "" {
		status = model.PhaseFinished
	}
	return &Embed{
		Colour: ColourBrightGreen,
		Description: strings.Join([]string{
			Line(l.GetText(KeyStatus), status),
			Line(l.GetText(KeyDownloadedBytes), format.Bytes(size)),
			Line(l.GetText(KeyElapsed), p.ElapsedString()),
		}, "\n"),
	}
}

// SoundSelect builds the dropdown listing clips, in the given order
func (l *Localization) SoundSelect(id string, clips []model.ClipEntry) *Select {
	options := make([]Option, 0, len(clips))
	for _, clip := range clips {
		if len(options) == MaxSelectOptions {
			break
		}
		options = append(options, Option{
			Label:       truncate(IconMusic+" "+clip.Name(), MaxLabelLength),
			Value:       clip.Filename,
			Description: format.FormatBytes(float64(clip.Size), false, 2),
		})
	}

	return &Select{
		ID:          id,
		Placeholder: l.GetText(KeyChooseSoundFile),
		Options:     options,
	}
}

// PanelMessage is the persistent message letting members manage the pack
func (l *Localization) PanelMessage() Message {
	return Message{
		Embed: &Embed{
			Title:       l.GetText(KeyPanelTitle),
			Description: l.GetText(KeyPanelDescription),
		},
		Buttons: []Button{
			{ID: PanelUploadID, Label: l.GetText(KeyUploadFromYouTube), Style: StyleSuccess},
			{ID: PanelRemoveID, Label: l.GetText(KeyRemoveSoundFile), Style: StyleDanger},
		},
	}
}

// URLForm asks for the link to upload from the panel
func (l *Localization) URLForm() Form {
	return Form{
		ID:    PanelFormID,
		Title: l.GetText(KeyUploadFromYouTube),
		Inputs: []TextInput{
			{
				ID:          PanelURLField,
				Label:       l.GetText(KeyURL),
				Placeholder: "https://www.youtube.com/watch?v=...",
				Required:    true,
			},
		},
	}
}

// SettingsForm asks for the clip settings. maxEnd is the trim ceiling in
// seconds; the end time is mandatory when the source is too big to publish whole.
func (l *Localization) SettingsForm(id string, maxEnd int, endRequired bool, fadeMs int) Form {
	return Form{
		ID:    id,
		Title: l.GetText(KeySettingsFormTitle),
		Inputs: []TextInput{
			{ID: FieldLabel, Label: l.GetText(KeyEventName), Placeholder: "music.rickroll", Required: true, MaxLength: MaxLabelLength},
			{ID: FieldStart, Label: l.GetText(KeyStartTime), Placeholder: "00:00", MinLength: 5, MaxLength: 9},
			{ID: FieldEnd, Label: l.GetText(KeyEndTime), Placeholder: l.Textf(KeyMaxEndTime, format.FormatClock(maxEnd)), Required: endRequired, MinLength: 5, MaxLength: 9},
			{ID: FieldVolume, Label: l.GetText(KeyVolume), Placeholder: "100%", MinLength: 2, MaxLength: 5},
			{ID: FieldFade, Label: l.GetText(KeyFade), Placeholder: fmt.Sprint(fadeMs), MinLength: 1, MaxLength: 5},
		},
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
