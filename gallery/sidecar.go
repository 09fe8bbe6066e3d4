package gallery

import (
	"os"
	"path/filepath"
	"strings"
)

// Sidecar filenames are the only configuration mechanism: the filesystem
// is the single source of truth, there is no database.
const (
	PasswordFile    = "password.txt"
	CoverFile       = "cover.txt"
	IgnoreStatsFile = "ignorestats.txt"
	TripDaysFile    = "trip_days.txt"
)

var readmeCandidates = []string{"README.md", "readme.md", "Readme.md", "README.txt", "readme.txt"}

// AlbumDir resolves an API album path ("albums/foo/bar") to its
// directory under the albums root.
func (s *Scanner) AlbumDir(albumPath string) string {
	rel := strings.TrimPrefix(albumPath, "albums/")
	return filepath.Join(s.Cfg.AlbumsDir, filepath.FromSlash(rel))
}

// PasswordFor returns the album's plaintext password, or "" when the
// album is not protected. Passwords are an access gate, not a security
// system: stored and compared as plain text.
func (s *Scanner) PasswordFor(albumPath string) string {
	data, err := os.ReadFile(filepath.Join(s.AlbumDir(albumPath), PasswordFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// HasPassword reports whether the album directory carries password.txt.
func hasPassword(albumDir string) bool {
	_, err := os.Stat(filepath.Join(albumDir, PasswordFile))
	return err == nil
}

// coverFor picks the album cover: the cover.txt override when it names a
// file present in the album, else the first image alphabetically.
func coverFor(albumDir string, images []string) string {
	if len(images) == 0 {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(albumDir, CoverFile))
	if err == nil {
		name := strings.TrimSpace(string(data))
		for _, img := range images {
			if img == name {
				return name
			}
		}
	}
	return images[0]
}

// Readme returns the raw README contents for an album, trying a few
// filename casings for case-sensitive production filesystems.
func (s *Scanner) Readme(albumPath string) (string, bool) {
	dir := s.AlbumDir(albumPath)
	for _, candidate := range readmeCandidates {
		data, err := os.ReadFile(filepath.Join(dir, candidate))
		if err == nil {
			return string(data), true
		}
	}
	return "", false
}

// IsStatsIgnored reports whether an album opted out of search, map,
// tags and stats aggregation (it remains browsable).
func (s *Scanner) IsStatsIgnored(albumPath string) bool {
	_, err := os.Stat(filepath.Join(s.AlbumDir(albumPath), IgnoreStatsFile))
	return err == nil
}

// IsPortfolioStatsIgnored is the portfolio-root variant of IsStatsIgnored.
func (s *Scanner) IsPortfolioStatsIgnored() bool {
	_, err := os.Stat(filepath.Join(s.Cfg.PortfolioDir, IgnoreStatsFile))
	return err == nil
}

// HasTripDays reports whether the album enables day-grouped display.
func (s *Scanner) HasTripDays(albumPath string) bool {
	_, err := os.Stat(filepath.Join(s.AlbumDir(albumPath), TripDaysFile))
	return err == nil
}

// captionFor renders the per-image Markdown sidecar, if present.
func (s *Scanner) captionFor(mediaAbsPath string) string {
	ext := filepath.Ext(mediaAbsPath)
	mdPath := strings.TrimSuffix(mediaAbsPath, ext) + ".md"
	data, err := os.ReadFile(mdPath)
	if err != nil {
		return ""
	}
	rendered, err := s.Markdown.Render(string(data))
	if err != nil {
		return ""
	}
	return rendered
}
