package linkcheck

import "regexp"

// GenericName is the catch-all extractor name. It claims every URL, so it never
// counts as support.
const GenericName = "generic"

// Extractor decides whether it can handle a URL
type Extractor interface {
	Name() string
	Suitable(url string) bool
}

// RegexExtractor is an Extractor backed by a URL pattern
type RegexExtractor struct {
	name    string
	pattern *regexp.Regexp
}

// NewRegexExtractor compiles pattern into an extractor. It panics on a bad
// pattern, like regexp.MustCompile.
func NewRegexExtractor(name, pattern string) *RegexExtractor {
	return &RegexExtractor{name: name, pattern: regexp.MustCompile(pattern)}
}

// Name returns the extractor name
func (e *RegexExtractor) Name() string {
	return e.name
}

// Suitable reports whether the URL matches the extractor pattern
func (e *RegexExtractor) Suitable(url string) bool {
	return e.pattern.MatchString(url)
}

// DefaultExtractors returns the site extractors known to the bot. Names follow
// yt-dlp's extractor names.
func DefaultExtractors() []Extractor {
	return []Extractor{
		NewRegexExtractor("youtube", `^https?://(?:(?:www|m|music)\.)?youtube(?:-nocookie)?\.com/(?:watch\?(?:.*&)?v=|embed/|shorts/|live/|v/)[\w-]{11}`),
		NewRegexExtractor("youtube", `^https?://youtu\.be/[\w-]{11}`),
		NewRegexExtractor("soundcloud", `^https?://(?:(?:www|m)\.)?soundcloud\.com/[\w-]+/[\w-]+`),
		NewRegexExtractor("vimeo", `^https?://(?:www\.|player\.)?vimeo\.com/(?:video/)?\d+`),
		NewRegexExtractor("dailymotion", `^https?://(?:www\.)?dailymotion\.com/video/[a-zA-Z0-9]+`),
		NewRegexExtractor("twitch:clips", `^https?://(?:clips\.twitch\.tv/|(?:www\.)?twitch\.tv/[\w-]+/clip/)[\w-]+`),
		NewRegexExtractor("twitch:vod", `^https?://(?:www\.)?twitch\.tv/videos/\d+`),
		NewRegexExtractor("Bandcamp", `^https?://[\w-]+\.bandcamp\.com/track/[\w-]+`),
		NewRegexExtractor("twitter", `^https?://(?:www\.|mobile\.)?(?:twitter|x)\.com/\w+/status/\d+`),
		NewRegexExtractor("TikTok", `^https?://(?:www\.)?tiktok\.com/@[\w.-]+/video/\d+`),
		NewRegexExtractor("Reddit", `^https?://(?:www\.|old\.)?reddit\.com/r/\w+/comments/\w+`),
		NewRegexExtractor("Instagram", `^https?://(?:www\.)?instagram\.com/(?:p|reel)/[\w-]+`),
		NewRegexExtractor("Streamable", `^https?://(?:www\.)?streamable\.com/[\w]+`),
		NewRegexExtractor(GenericName, `.*`),
	}
}
