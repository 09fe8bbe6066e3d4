package metadata

import (
	"fmt"
	"image"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	// register webp and tiff decoders so DecodeConfig accepts the full
	// supported extension list
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"gallery-backend/models"
)

// Meta is the result of extracting one media file.
type Meta struct {
	Width    int
	Height   int
	Duration *float64 // videos only
	Exif     *models.ExifData
}

// exifWallClock is the EXIF timestamp layout. Camera-local time is
// stored without a timezone, so it is parsed as UTC wall-clock and must
// never be converted.
const exifWallClock = "2006:01:02 15:04:05"

// Extractor produces metadata for image files. A nil KeywordReader
// disables keyword extraction.
type Extractor struct {
	Keywords *KeywordReader
}

// helper to safely get and convert a rational tag (like FNumber, FocalLength)
func getRational(exifData *exif.Exif, tagName exif.FieldName) (float64, bool) {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		valInt, errInt := tag.Int(0)
		if errInt == nil {
			return float64(valInt), true
		}
		return 0, false
	}
	return float64(num) / float64(den), true
}

// helper to safely get and convert an integer tag (like ISO)
func getInt(exifData *exif.Exif, tagName exif.FieldName) (int, bool) {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return 0, false
	}
	val, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return val, true
}

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return ""
	}
	val, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimRight(strings.TrimSpace(val), "\x00")
}

// formatNumber renders a float without trailing zeros (35, 1.5, 2.8).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatShutterSpeed renders an exposure time: "2s" or "1.5s" at one
// second and above, "1/250s" below.
func FormatShutterSpeed(seconds float64) string {
	if seconds >= 1 {
		return formatNumber(seconds) + "s"
	}
	return fmt.Sprintf("1/%ds", int(math.Round(1/seconds)))
}

// FormatExposureComp renders exposure compensation as signed EV.
func FormatExposureComp(ev float64) string {
	if ev == 0 {
		return "±0 EV"
	}
	if ev > 0 {
		return fmt.Sprintf("+%.1f EV", ev)
	}
	return fmt.Sprintf("%.1f EV", ev)
}

// FormatMegapixels renders a pixel count as "24.2 MP", or "640 KP" for
// sub-megapixel images.
func FormatMegapixels(width, height int) string {
	mp := float64(width*height) / 1e6
	if mp >= 1 {
		return fmt.Sprintf("%.1f MP", mp)
	}
	return fmt.Sprintf("%.0f KP", mp*1000)
}

// FormatCamera joins make and model without duplicating the make
// (avoids "Canon Canon EOS R5").
func FormatCamera(make, model string) string {
	make = strings.TrimSpace(make)
	model = strings.TrimSpace(model)
	if model == "" {
		return make
	}
	if make == "" || strings.HasPrefix(model, make) {
		return model
	}
	return make + " " + model
}

// FormatDateTaken derives the display string from the canonical unix
// timestamp: "Jan 2, 2006 at 3:04 PM".
func FormatDateTaken(takenAt int64) string {
	return time.Unix(takenAt, 0).UTC().Format("Jan 2, 2006 at 3:04 PM")
}

var colorSpaceNames = map[int]string{
	1: "SRGB",
	2: "ADOBE RGB",
}

// Extract decodes an image and returns its dimensions plus a formatted
// EXIF block. Every sub-step failure (EXIF, keywords, GPS) is swallowed
// independently; only an unreadable or undecodable file returns an error.
func (ex *Extractor) Extract(filePath string) (Meta, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Meta{}, fmt.Errorf("metadata: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return Meta{}, fmt.Errorf("metadata: failed to decode %s: %w", filePath, err)
	}
	width, height := cfg.Width, cfg.Height

	ed := &models.ExifData{}

	if ex.Keywords != nil {
		if kws, err := ex.Keywords.Read(filePath); err == nil && len(kws) > 0 {
			ed.Keywords = kws
		}
	}

	if width > 0 && height > 0 {
		ed.Dimensions = fmt.Sprintf("%d × %d", width, height)
		ed.AspectRatio = FormatAspectRatio(width, height)
		ed.Megapixels = FormatMegapixels(width, height)
	}

	if _, err := file.Seek(0, 0); err != nil {
		return Meta{}, fmt.Errorf("metadata: failed to seek file %s: %w", filePath, err)
	}

	exifData, err := exif.Decode(file)
	if err != nil {
		// file simply lacks EXIF data; dimensions alone are valid
		return Meta{Width: width, Height: height, Exif: finishExif(ed)}, nil
	}

	ed.Camera = FormatCamera(getString(exifData, exif.Make), getString(exifData, exif.Model))
	ed.Lens = getString(exifData, exif.LensModel)

	if v, ok := getRational(exifData, exif.FocalLength); ok {
		ed.FocalLength = formatNumber(v) + "mm"
	}
	if v, ok := getRational(exifData, exif.FNumber); ok {
		ed.Aperture = "f/" + formatNumber(v)
	}
	if v, ok := getRational(exifData, exif.ExposureTime); ok && v > 0 {
		ed.ShutterSpeed = FormatShutterSpeed(v)
	}
	if v, ok := getInt(exifData, exif.ISOSpeedRatings); ok {
		ed.ISO = &v
	}
	if s := getString(exifData, exif.DateTimeOriginal); s != "" {
		if t, err := time.ParseInLocation(exifWallClock, s, time.UTC); err == nil {
			ts := t.Unix()
			ed.TakenAt = &ts
		}
	}
	if tag, err := exifData.Get(exif.ExposureBiasValue); err == nil && tag != nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			ed.ExposureComp = FormatExposureComp(float64(num) / float64(den))
		}
	}
	if v, ok := getInt(exifData, exif.WhiteBalance); ok {
		if v == 0 {
			ed.WhiteBalance = "Auto"
		} else {
			ed.WhiteBalance = "Manual"
		}
	}
	if v, ok := getInt(exifData, exif.Flash); ok {
		// bitmask, bit 0 indicates whether the flash fired
		if v&1 != 0 {
			ed.Flash = "Fired"
		} else {
			ed.Flash = "Off"
		}
	}
	if v, ok := getInt(exifData, exif.ColorSpace); ok {
		if name, known := colorSpaceNames[v]; known {
			ed.ColorSpace = name
		}
	}

	if gps := extractGPS(exifData); gps != nil {
		ed.GPS = gps
	}

	return Meta{Width: width, Height: height, Exif: finishExif(ed)}, nil
}

func extractGPS(exifData *exif.Exif) *models.GPSInfo {
	lat, lng, err := exifData.LatLong()
	if err != nil {
		return nil
	}
	gps := &models.GPSInfo{Latitude: lat, Longitude: lng}

	if alt, ok := getRational(exifData, exif.GPSAltitude); ok {
		// GPSAltitudeRef: 0 = above sea level, 1 = below sea level
		if ref, refOk := getInt(exifData, exif.GPSAltitudeRef); refOk && ref == 1 {
			alt = -alt
		}
		rounded := int(math.Round(alt))
		gps.Altitude = &rounded
	}
	return gps
}

func finishExif(ed *models.ExifData) *models.ExifData {
	if ed.IsEmpty() {
		return nil
	}
	return ed
}
