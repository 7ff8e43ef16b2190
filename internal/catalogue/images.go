package catalogue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

const imageBaseURL = "https://images.igdb.com/igdb/image/upload"

// sizeByType maps an image's parent field to the upload size IGDB should render.
var sizeByType = map[string]string{
	"cover":         "cover_big",
	"platform_logo": "logo_med",
	"logo":          "logo_med",
	"screenshots":   "screenshot_big",
	"artworks":      "720p",
}

const defaultSize = "thumb"

// imageRef is one discovered image object and the field it was found under.
type imageRef struct {
	parentField string
	imageID     string
}

// ImageDownloader fetches the images referenced inside IGDB records.
type ImageDownloader struct {
	httpClient *http.Client
}

func NewImageDownloader() *ImageDownloader {
	return &ImageDownloader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (d *ImageDownloader) WithHTTPClient(client *http.Client) *ImageDownloader {
	d.httpClient = client
	return d
}

// isImageObject reports whether a decoded map looks like an IGDB image record.
func isImageObject(obj map[string]any) bool {
	for _, field := range []string{"image_id", "width", "height"} {
		if _, ok := obj[field]; !ok {
			return false
		}
	}
	return true
}

// findImages walks a record recursively and collects every image object,
// remembering the field name each was nested under so the right size applies.
func findImages(key string, value any, found []imageRef) []imageRef {
	switch v := value.(type) {
	case map[string]any:
		if isImageObject(v) {
			if id, ok := v["image_id"].(string); ok && id != "" {
				return append(found, imageRef{parentField: key, imageID: id})
			}
			return found
		}
		for k, nested := range v {
			found = findImages(k, nested, found)
		}
		return found
	case []any:
		for _, item := range v {
			found = findImages(key, item, found)
		}
		return found
	default:
		return found
	}
}

// ImageURL builds the size-mapped download URL for an image.
func ImageURL(imageType, imageID string) string {
	size, ok := sizeByType[imageType]
	if !ok {
		size = defaultSize
	}
	return fmt.Sprintf("%s/t_%s/%s.jpg", imageBaseURL, size, imageID)
}

// DownloadAll downloads every image referenced in the record into dir and
// returns the local paths keyed by image ID. Existing files are not
// re-downloaded so interrupted runs can resume.
func (d *ImageDownloader) DownloadAll(ctx context.Context, record map[string]any, dir string) (map[string]string, error) {
	refs := findImages("", record, nil)
	if len(refs) == 0 {
		return nil, nil
	}

	paths := make(map[string]string, len(refs))
	for _, ref := range refs {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.jpg", ref.parentField, ref.imageID))

		if _, err := os.Stat(path); err == nil {
			log.Debug().Msgf("image '%s' already present, skipping", path)
			paths[ref.imageID] = path
			continue
		}

		if err := d.download(ctx, ImageURL(ref.parentField, ref.imageID), path); err != nil {
			return paths, fmt.Errorf("downloading image '%s': %w", ref.imageID, err)
		}
		paths[ref.imageID] = path
	}
	return paths, nil
}

// AnnotateLocalPaths writes a local_file_path field into every image object
// that was downloaded, so the catalogue JSON points at the files on disk.
func AnnotateLocalPaths(value any, paths map[string]string) any {
	switch v := value.(type) {
	case map[string]any:
		if isImageObject(v) {
			if id, ok := v["image_id"].(string); ok {
				if path, downloaded := paths[id]; downloaded {
					v["local_file_path"] = path
				}
			}
			return v
		}
		for k, nested := range v {
			v[k] = AnnotateLocalPaths(nested, paths)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = AnnotateLocalPaths(item, paths)
		}
		return v
	default:
		return v
	}
}

func (d *ImageDownloader) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from '%s'", resp.StatusCode, url)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
