package models

// GPSInfo is a decimal-degree coordinate extracted from EXIF GPS tags.
type GPSInfo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  *int    `json:"altitude,omitempty"`
}

// ExifData holds display-formatted camera metadata for one image. Absent
// fields are omitted, never null-filled; the whole block is omitted when
// nothing was extracted.
//
// TakenAt (unix seconds, camera wall-clock) is the canonical capture
// timestamp; DateTaken is derived from it when DTOs are built and is
// never used for sorting or filtering.
type ExifData struct {
	Camera       string   `json:"camera,omitempty"`
	Lens         string   `json:"lens,omitempty"`
	FocalLength  string   `json:"focalLength,omitempty"`
	Aperture     string   `json:"aperture,omitempty"`
	ShutterSpeed string   `json:"shutterSpeed,omitempty"`
	ISO          *int     `json:"iso,omitempty"`
	TakenAt      *int64   `json:"takenAt,omitempty"`
	DateTaken    string   `json:"dateTaken,omitempty"`
	Dimensions   string   `json:"dimensions,omitempty"`
	AspectRatio  string   `json:"aspectRatio,omitempty"`
	Megapixels   string   `json:"megapixels,omitempty"`
	ExposureComp string   `json:"exposureComp,omitempty"`
	WhiteBalance string   `json:"whiteBalance,omitempty"`
	Flash        string   `json:"flash,omitempty"`
	ColorSpace   string   `json:"colorSpace,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	GPS          *GPSInfo `json:"gps,omitempty"`
}

// IsEmpty reports whether no field was extracted at all.
func (e *ExifData) IsEmpty() bool {
	return e.Camera == "" && e.Lens == "" && e.FocalLength == "" &&
		e.Aperture == "" && e.ShutterSpeed == "" && e.ISO == nil &&
		e.TakenAt == nil && e.Dimensions == "" && e.AspectRatio == "" &&
		e.Megapixels == "" && e.ExposureComp == "" && e.WhiteBalance == "" &&
		e.Flash == "" && e.ColorSpace == "" && len(e.Keywords) == 0 &&
		e.GPS == nil
}

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// ImageInfo is the per-request DTO for one media file. It is rebuilt on
// every scan and never mutated after construction.
type ImageInfo struct {
	Filename     string    `json:"filename"`
	Path         string    `json:"path"` // slash-separated, relative to the photos root
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	FullURL      string    `json:"fullUrl"`
	DownloadURL  string    `json:"downloadUrl"`
	Exif         *ExifData `json:"exif,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	Type         string    `json:"type,omitempty"` // image|video, empty means image
	Duration     *float64  `json:"duration,omitempty"`
	VideoURL     string    `json:"videoUrl,omitempty"`
}

// AlbumInfo summarizes one directory of images for index views. The
// cover is withheld entirely for password-protected albums.
type AlbumInfo struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Path        string  `json:"path"`
	CoverImage  *string `json:"coverImage"`
	CoverWidth  *int    `json:"coverWidth,omitempty"`
	CoverHeight *int    `json:"coverHeight,omitempty"`
	ImageCount  int     `json:"imageCount"`
	HasPassword bool    `json:"hasPassword"`
	UpdatedAt   *int64  `json:"updatedAt,omitempty"` // unix millis, max image mtime
}

// GroupInfo is a directory of albums with no direct images. Exactly one
// level of group nesting is supported.
type GroupInfo struct {
	Name   string      `json:"name"`
	Slug   string      `json:"slug"`
	Albums []AlbumInfo `json:"albums"`
}

// AlbumTree is the full scan result over the albums root.
type AlbumTree struct {
	Groups []GroupInfo `json:"groups"`
	Albums []AlbumInfo `json:"albums"`
}

// AlbumDetail is the response body for a single album. A locked album
// returns only the identity fields plus NeedsPassword and ImageCount.
type AlbumDetail struct {
	Type          string      `json:"type"` // album|group
	Name          string      `json:"name"`
	Slug          string      `json:"slug"`
	Path          string      `json:"path,omitempty"`
	HasPassword   bool        `json:"hasPassword"`
	NeedsPassword bool        `json:"needsPassword"`
	ImageCount    int         `json:"imageCount"`
	Images        []ImageInfo `json:"images,omitempty"`
	Readme        string      `json:"readme,omitempty"`
	HasTripDays   bool        `json:"hasTripDays,omitempty"`
	Albums        []AlbumInfo `json:"albums,omitempty"` // group detail only
}

// Tag is one keyword with its frequency across the library.
type Tag struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
