package platform

// Package platform contains OS and external tooling glue: parsing of yt-dlp JSON
// output into domain metadata, and the filesystem helpers used around downloads
// and transcoded clips.
