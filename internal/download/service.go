package download

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"github.com/ytget/soundpack/internal/model"
	"github.com/ytget/soundpack/internal/platform"
)

// Download settings
const (
	DefaultFormat     = "worstaudio/worst"
	DownloadIDPrefix  = "dl-"
	OutputTemplate    = "%(ext)s"
	ProgressFrequency = 500 * time.Millisecond
)

// Service handles extraction and download operations
type Service struct {
	downloadDir string
	format      string
	log         logrus.FieldLogger
}

// NewService creates a new extraction client writing into downloadDir
func NewService(downloadDir string, log logrus.FieldLogger) *Service {
	return &Service{
		downloadDir: downloadDir,
		format:      DefaultFormat,
		log:         log,
	}
}

// Install makes sure a yt-dlp binary is available, downloading it if needed
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{}); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	return nil
}

// Extract fetches the metadata of link without downloading it
func (s *Service) Extract(ctx context.Context, link string) (*model.Metadata, error) {
	dl := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		NoPlaylist().
		NoWarnings().
		ForceIPv4()

	result, err := dl.Run(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", link, err)
	}

	meta, err := platform.ParseMetadata([]byte(result.Stdout))
	if err != nil {
		return nil, err
	}
	if meta.WebpageURL == "" {
		meta.WebpageURL = link
	}

	s.log.WithFields(logrus.Fields{"id": meta.ID, "extractor": meta.Extractor}).Debug("Extracted metadata")
	return meta, nil
}

// Download fetches link into the download directory and returns the file path.
// Progress updates are converted and passed to report.
func (s *Service) Download(ctx context.Context, link string, report func(model.Progress)) (string, error) {
	if err := platform.CreateDirectoryIfNotExists(s.downloadDir); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	id := generateDownloadID()
	dl := ytdlp.New().
		Format(s.format).
		NoPlaylist().
		NoWarnings().
		ForceIPv4().
		ForceOverwrites().
		RestrictFilenames().
		Output(filepath.Join(s.downloadDir, id+"."+OutputTemplate))

	started := time.Now()
	if report != nil {
		report(model.Progress{Phase: model.PhaseStarting})
		dl.ProgressFunc(ProgressFrequency, func(update ytdlp.ProgressUpdate) {
			report(convertProgress(update, started, time.Now()))
		})
	}

	if _, err := dl.Run(ctx, link); err != nil {
		s.discard(id)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("failed to download %s: %w", link, err)
	}

	path, err := platform.FindByPrefix(s.downloadDir, id+".")
	if err != nil {
		s.discard(id)
		return "", err
	}

	if report != nil {
		report(model.Progress{
			Phase:    model.PhaseFinished,
			Filename: filepath.Base(path),
			Percent:  100,
			Elapsed:  time.Since(started),
		})
	}

	s.log.WithFields(logrus.Fields{"path": path, "elapsed": time.Since(started)}).Debug("Downloaded file")
	return path, nil
}

// discard removes whatever a failed download of id left behind
func (s *Service) discard(id string) {
	if err := platform.RemoveByPrefix(s.downloadDir, id+"."); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("Failed to remove download leftovers")
	}
}

// convertProgress turns a yt-dlp progress update into a snapshot
func convertProgress(update ytdlp.ProgressUpdate, started, now time.Time) model.Progress {
	p := model.Progress{
		Phase:           phaseOf(string(update.Status)),
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
	}
	if update.Filename != "" {
		p.Filename = filepath.Base(update.Filename)
	}

	if p.TotalBytes > 0 {
		p.Percent = float64(p.DownloadedBytes) / float64(p.TotalBytes) * 100
	}

	// Calculate speed
	if !update.Started.IsZero() {
		started = update.Started
	}
	elapsed := now.Sub(started)
	if elapsed > 0 {
		p.Elapsed = elapsed
		p.Speed = float64(p.DownloadedBytes) / elapsed.Seconds()
	}

	if eta := update.ETA(); eta > 0 {
		p.ETA = eta
	}

	return p
}

// phaseOf maps yt-dlp progress status values onto model phases. An empty
// status has not been reported yet; any other unknown status is an error.
func phaseOf(status string) string {
	switch strings.ToLower(status) {
	case "", model.PhaseStarting:
		return model.PhaseStarting
	case model.PhaseDownloading:
		return model.PhaseDownloading
	case model.PhasePostProcessing, "postprocessing":
		return model.PhasePostProcessing
	case model.PhaseFinished:
		return model.PhaseFinished
	default:
		return model.PhaseError
	}
}

// generateDownloadID generates a unique download ID used as the file stem
func generateDownloadID() string {
	return DownloadIDPrefix + uuid.Must(uuid.NewV7()).String()
}
