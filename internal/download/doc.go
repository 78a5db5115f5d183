// Package download implements metadata extraction and downloads built on top
// of yt-dlp (via github.com/lrstanley/go-ytdlp). Each download reports its
// progress to the handle passed by the caller; nothing is shared between
// downloads.
package download
