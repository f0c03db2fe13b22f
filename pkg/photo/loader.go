package photo

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/httputil"
)

// Loader resolves a photo reference to a decoded image.
type Loader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc func(ctx context.Context, ref string) (image.Image, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, ref string) (image.Image, error) { return f(ctx, ref) }

// Source loads http(s) references through an HTTP client and everything
// else from the file system.
type Source struct {
	http   *httputil.Client
	dir    string
	logger *log.Logger
}

// NewSource creates a Source. Relative file references resolve against
// dir. A nil client gets an uncached default; a nil logger discards.
func NewSource(h *httputil.Client, dir string, logger *log.Logger) *Source {
	if h == nil {
		h = httputil.NewClient(nil, 0, nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Source{http: h, dir: dir, logger: logger}
}

// Load fetches and decodes ref. Cloudinary URLs are first tried with
// [CORSRewrite] applied and then as given.
func (s *Source) Load(ctx context.Context, ref string) (image.Image, error) {
	if err := errors.ValidatePhotoRef(ref); err != nil {
		return nil, err
	}
	if !isURL(ref) {
		return s.loadFile(ref)
	}

	if rewritten := CORSRewrite(ref); rewritten != ref {
		img, err := s.loadURL(ctx, rewritten)
		if err == nil {
			return img, nil
		}
		s.logger.Debug("rewritten photo URL failed, trying original", "url", rewritten, "error", err)
	}
	return s.loadURL(ctx, ref)
}

func (s *Source) loadURL(ctx context.Context, url string) (image.Image, error) {
	data, err := s.http.CachedBytes(ctx, "photo", url)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data), url)
}

func (s *Source) loadFile(ref string) (image.Image, error) {
	path := ref
	if !filepath.IsAbs(path) && s.dir != "" {
		path = filepath.Join(s.dir, path)
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "photo %s", ref)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open photo %s", ref)
	}
	defer f.Close()
	return Decode(f, ref)
}

// Decode decodes a JPEG, PNG, GIF, WebP or BMP image and applies its EXIF
// orientation. Failures carry IMAGE_DECODE_FAILURE.
func Decode(r io.Reader, name string) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "decode %s", name)
	}
	return img, nil
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
