package share

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/agentstation/proverbs/pkg/constants"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/logging"
	"github.com/agentstation/proverbs/pkg/notifier"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// Export messages.
const (
	MsgDownloaded   = "Proverb image downloaded!"
	MsgShared       = "Shared successfully!"
	MsgExportFailed = "Failed to generate image."
	MsgNoSelection  = "No proverb selected to share."
)

// Result describes a finished export. A share that failed or was cancelled
// does not make the export fail.
type Result struct {
	Path           string
	Shared         bool
	ShareErr       error
	ShareCancelled bool
}

// Exporter renders proverb cards into a download directory and offers them
// to a Sharer.
type Exporter struct {
	dir      string
	site     string
	scale    float64
	sharer   Sharer
	notifier notifier.Notifier
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithSharer offers each exported file to s when it is available.
func WithSharer(s Sharer) ExporterOption {
	return func(e *Exporter) { e.sharer = s }
}

// WithSite sets the site shown in the card footer.
func WithSite(site string) ExporterOption {
	return func(e *Exporter) { e.site = site }
}

// WithScale sets the pixel ratio.
func WithScale(scale float64) ExporterOption {
	return func(e *Exporter) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

// WithExportNotifier sets where confirmations go.
func WithExportNotifier(n notifier.Notifier) ExporterOption {
	return func(e *Exporter) {
		if n != nil {
			e.notifier = n
		}
	}
}

// NewExporter writes images into dir.
func NewExporter(dir string, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		dir:      dir,
		site:     constants.DefaultSiteURL,
		scale:    constants.ImageScale,
		notifier: notifier.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the download directory.
func (e *Exporter) Dir() string { return e.dir }

// Export renders p, saves it as fileName (p.FileName() when empty) and then,
// when a sharer is available, offers the file with title and text.
func (e *Exporter) Export(ctx context.Context, p proverb.Proverb, fileName, title, text string) (Result, error) {
	ctx = logging.WithProverb(logging.WithOperation(ctx, "export"), p.ID)
	log := logging.FromContext(ctx)

	if fileName == "" {
		fileName = p.FileName()
	}
	if title == "" {
		title = constants.ShareTitle
	}

	path, err := e.save(p, fileName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate image")
		e.notifier.Notify(notifier.LevelError, MsgExportFailed)
		return Result{}, err
	}
	log.Info().Str("path", path).Msg("Image saved")
	e.notifier.Notify(notifier.LevelSuccess, MsgDownloaded)

	res := Result{Path: path}
	if e.sharer == nil || !e.sharer.Available() {
		return res, nil
	}

	err = e.sharer.Share(ctx, Payload{Path: path, Title: title, Text: text})
	switch {
	case err == nil:
		res.Shared = true
		e.notifier.Notify(notifier.LevelInfo, MsgShared)
	case errors.Is(err, ErrShareCancelled) || ctx.Err() != nil:
		res.ShareCancelled = true
		log.Info().Msg("Sharing cancelled, image already saved")
	default:
		res.ShareErr = err
		log.Info().Err(err).Msg("Sharing failed, image already saved")
	}
	return res, nil
}

func (e *Exporter) save(p proverb.Proverb, fileName string) (string, error) {
	if fileName != filepath.Base(fileName) {
		return "", errors.NewValidationError("file_name", fileName, "must not contain a directory")
	}

	var buf bytes.Buffer
	if err := RenderPNG(&buf, Card{Proverb: p, Site: e.site}, e.scale); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", e.dir, err)
	}
	path := filepath.Join(e.dir, fileName)
	tmp, err := os.CreateTemp(e.dir, "."+fileName+".*.tmp")
	if err != nil {
		return "", errors.WrapIO("create", e.dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", errors.WrapIO("close", tmpName, err)
	}
	if err := os.Chmod(tmpName, constants.FilePermissions); err != nil {
		_ = os.Remove(tmpName)
		return "", errors.WrapIO("chmod", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", errors.WrapIO("rename", path, err)
	}
	return path, nil
}

// DefaultDownloadDir returns ~/Downloads when it exists, else the working
// directory.
func DefaultDownloadDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
