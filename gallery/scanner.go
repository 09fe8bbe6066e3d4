package gallery

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gallery-backend/config"
	"gallery-backend/media"
	"gallery-backend/metadata"
	"gallery-backend/models"
)

// ErrNotFound marks a missing album or group; handlers map it to 404.
var ErrNotFound = errors.New("not found")

// Scanner rebuilds gallery projections from the filesystem on every
// request. Nothing here is persisted: the directory tree plus sidecar
// files are the source of truth, and the metadata service memoizes the
// expensive per-file extraction.
type Scanner struct {
	Cfg      config.Config
	Meta     *metadata.Service
	Markdown *Renderer
}

func NewScanner(cfg config.Config, meta *metadata.Service) *Scanner {
	return &Scanner{Cfg: cfg, Meta: meta, Markdown: NewRenderer()}
}

// IsHiddenDir filters dotfiles and Synology NAS indexing artifacts out
// of traversal.
func IsHiddenDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.EqualFold(name, "@eadir")
}

// FormatAlbumName derives a display name from a directory name:
// separators become spaces and each word is title-cased.
func FormatAlbumName(dirname string) string {
	runes := []rune(strings.NewReplacer("-", " ", "_", " ").Replace(dirname))
	prevIsWord := false
	for i, r := range runes {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r)
		if isWord && !prevIsWord {
			runes[i] = unicode.ToUpper(r)
		}
		prevIsWord = isWord
	}
	return string(runes)
}

// hasDatePrefix reports an 8-digit YYYYMMDD-style directory name prefix.
func hasDatePrefix(name string) bool {
	if len(name) < 8 {
		return false
	}
	for _, r := range name[:8] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AlbumNameLess orders directory names: date-prefixed names descending
// (newest first), everything else ascending. Mixed pairs fall back to
// plain ascending string comparison, so the ordering is only "pure"
// within each subset.
func AlbumNameLess(a, b string) bool {
	if hasDatePrefix(a) && hasDatePrefix(b) {
		return a > b
	}
	return a < b
}

// ListMediaFiles returns the sorted media filenames directly inside dir.
// A missing directory yields an empty list.
func ListMediaFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || IsHiddenDir(e.Name()) || !media.IsMediaFile(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files
}

func hasDirectMedia(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && media.IsMediaFile(e.Name()) {
			return true
		}
	}
	return false
}

func listSubdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && !IsHiddenDir(e.Name()) {
			dirs = append(dirs, e.Name())
		}
	}
	sort.SliceStable(dirs, func(i, j int) bool { return AlbumNameLess(dirs[i], dirs[j]) })
	return dirs
}

// buildImageInfo assembles the DTO for one media file. The cached
// ExifData is copied before the display timestamp is attached so the
// cache never holds presentation fields.
func (s *Scanner) buildImageInfo(ctx context.Context, absPath, relPath, filename string) (models.ImageInfo, error) {
	entry, err := s.Meta.Get(ctx, absPath)
	if err != nil {
		return models.ImageInfo{}, err
	}

	info := models.ImageInfo{
		Filename:     filename,
		Path:         relPath,
		Width:        entry.Width,
		Height:       entry.Height,
		ThumbnailURL: "/api/images/thumbnail/" + relPath,
		FullURL:      "/api/images/full/" + relPath,
		DownloadURL:  "/api/images/download/" + relPath,
		Caption:      s.captionFor(absPath),
	}

	if media.IsVideoFile(filename) {
		info.Type = models.MediaTypeVideo
		info.Duration = entry.Duration
		info.VideoURL = "/api/images/video/" + relPath
	}

	if entry.Exif != nil {
		exif := *entry.Exif
		if exif.TakenAt != nil {
			exif.DateTaken = metadata.FormatDateTaken(*exif.TakenAt)
		}
		info.Exif = &exif
	}

	return info, nil
}

// scanDir maps every media file directly inside dir to an ImageInfo.
// Per-file extraction failures are logged and skipped; they never fail
// the whole scan.
func (s *Scanner) scanDir(ctx context.Context, dir, relPrefix string) []models.ImageInfo {
	files := ListMediaFiles(dir)
	images := make([]models.ImageInfo, 0, len(files))
	for _, filename := range files {
		info, err := s.buildImageInfo(ctx, filepath.Join(dir, filename), relPrefix+"/"+filename, filename)
		if err != nil {
			log.Printf("[scanner] skipping %s/%s: %v", relPrefix, filename, err)
			continue
		}
		images = append(images, info)
	}
	return images
}

// Portfolio returns the flat portfolio listing, alphabetical by
// filename. A missing portfolio root yields an empty list.
func (s *Scanner) Portfolio(ctx context.Context) []models.ImageInfo {
	return s.scanDir(ctx, s.Cfg.PortfolioDir, "portfolio")
}

// AlbumImages returns the images of one album, alphabetical by filename.
func (s *Scanner) AlbumImages(ctx context.Context, albumPath string) []models.ImageInfo {
	return s.scanDir(ctx, s.AlbumDir(albumPath), albumPath)
}

// albumUpdatedAt is the max mtime over the album's direct media files,
// in unix milliseconds; zero when no file could be stated.
func albumUpdatedAt(albumDir string, images []string) int64 {
	var max int64
	for _, img := range images {
		fi, err := os.Stat(filepath.Join(albumDir, img))
		if err != nil {
			continue
		}
		if ms := fi.ModTime().UnixMilli(); ms > max {
			max = ms
		}
	}
	return max
}

// buildAlbumInfo summarizes one album directory for index views. The
// cover (and its dimensions) is withheld entirely when the album is
// password-protected so index views never leak protected thumbnails.
func (s *Scanner) buildAlbumInfo(ctx context.Context, albumDir, albumPath string) models.AlbumInfo {
	name := filepath.Base(albumDir)
	images := ListMediaFiles(albumDir)
	protected := hasPassword(albumDir)

	info := models.AlbumInfo{
		Name:        FormatAlbumName(name),
		Slug:        name,
		Path:        albumPath,
		ImageCount:  len(images),
		HasPassword: protected,
	}

	if updated := albumUpdatedAt(albumDir, images); updated > 0 {
		info.UpdatedAt = &updated
	}

	if cover := coverFor(albumDir, images); cover != "" && !protected {
		url := "/api/images/thumbnail/" + albumPath + "/" + cover
		info.CoverImage = &url
		if entry, err := s.Meta.Get(ctx, filepath.Join(albumDir, cover)); err == nil {
			w, h := entry.Width, entry.Height
			info.CoverWidth = &w
			info.CoverHeight = &h
		}
	}

	return info
}

// Albums walks the albums root and produces the full tree. A directory
// with direct media files is an album, even when it also contains
// subdirectories; a directory with no direct media but qualifying
// children is a group. Exactly one level of group nesting is supported;
// deeper directories are not traversed. A missing albums root returns an
// empty tree, never an error.
func (s *Scanner) Albums(ctx context.Context) models.AlbumTree {
	tree := models.AlbumTree{Groups: []models.GroupInfo{}, Albums: []models.AlbumInfo{}}

	for _, entry := range listSubdirs(s.Cfg.AlbumsDir) {
		entryDir := filepath.Join(s.Cfg.AlbumsDir, entry)
		albumPath := "albums/" + entry

		if hasDirectMedia(entryDir) {
			tree.Albums = append(tree.Albums, s.buildAlbumInfo(ctx, entryDir, albumPath))
			continue
		}

		var groupAlbums []models.AlbumInfo
		for _, sub := range listSubdirs(entryDir) {
			subDir := filepath.Join(entryDir, sub)
			if hasDirectMedia(subDir) {
				groupAlbums = append(groupAlbums, s.buildAlbumInfo(ctx, subDir, albumPath+"/"+sub))
			}
		}
		if len(groupAlbums) > 0 {
			tree.Groups = append(tree.Groups, models.GroupInfo{
				Name:   FormatAlbumName(entry),
				Slug:   entry,
				Albums: groupAlbums,
			})
		}
	}

	return tree
}

// AlbumDetail resolves a single album or group. A password-protected
// album that the caller has not unlocked returns the short form: identity
// fields, needsPassword and the image count, nothing else.
func (s *Scanner) AlbumDetail(ctx context.Context, albumPath string, unlocked bool) (models.AlbumDetail, error) {
	dir := s.AlbumDir(albumPath)
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return models.AlbumDetail{}, ErrNotFound
	}

	name := filepath.Base(dir)

	if hasDirectMedia(dir) {
		protected := hasPassword(dir)
		detail := models.AlbumDetail{
			Type:        "album",
			Name:        FormatAlbumName(name),
			Slug:        name,
			Path:        albumPath,
			HasPassword: protected,
		}

		if protected && !unlocked {
			detail.NeedsPassword = true
			detail.ImageCount = len(ListMediaFiles(dir))
			return detail, nil
		}

		detail.Images = s.AlbumImages(ctx, albumPath)
		detail.ImageCount = len(detail.Images)
		detail.HasTripDays = s.HasTripDays(albumPath)
		if raw, ok := s.Readme(albumPath); ok {
			if rendered, err := s.Markdown.Render(raw); err == nil {
				detail.Readme = rendered
			}
		}
		return detail, nil
	}

	var groupAlbums []models.AlbumInfo
	for _, sub := range listSubdirs(dir) {
		subDir := filepath.Join(dir, sub)
		if hasDirectMedia(subDir) {
			groupAlbums = append(groupAlbums, s.buildAlbumInfo(ctx, subDir, albumPath+"/"+sub))
		}
	}
	if len(groupAlbums) == 0 {
		return models.AlbumDetail{}, ErrNotFound
	}

	return models.AlbumDetail{
		Type:   "group",
		Name:   FormatAlbumName(name),
		Slug:   name,
		Albums: groupAlbums,
	}, nil
}
