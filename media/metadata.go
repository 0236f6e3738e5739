package media

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// helper to safely get and convert a rational tag (like Aperture)
func getRational(exifData *exif.Exif, tagName exif.FieldName) *float64 {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil // Tag not found
	}
	// rational numbers are often stored as num/den
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		// sometimes stored as Int instead
		valInt, errInt := tag.Int(0)
		if errInt == nil {
			fVal := float64(valInt)
			return &fVal
		}
		return nil
	}
	val := float64(num) / float64(den)
	return &val
}

// helper to safely get and convert an integer tag (like ISO)
func getInt(exifData *exif.Exif, tagName exif.FieldName) *int {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	// ISO might be a slice, get the first value
	val, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &val
}

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val := strings.Trim(tag.String(), "\"\x00")
	if val == "" {
		return nil
	}
	return &val
}

// helper to get Shutter Speed specifically, formatting it nicely
func getShutterSpeed(exifData *exif.Exif) *string {
	tag, err := exifData.Get(exif.ExposureTime)
	if err != nil || tag == nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil // Cannot represent as fraction
	}

	if num == 1 && den > 1 { // common case: 1/XXX
		s := fmt.Sprintf("1/%d", den)
		return &s
	}

	val := float64(num) / float64(den)
	if val >= 1.0 {
		s := fmt.Sprintf("%.1fs", val) // e.g., 1.5s, 30.0s
		return &s
	}
	s := fmt.Sprintf("%.4fs", val)
	return &s
}

// ExtractMetadata reads dimensions and the EXIF fields the inventory cares
// about. EXIF absence is not an error; the returned Metadata just has fewer
// fields set.
func ExtractMetadata(filePath string) (*Metadata, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("metadata: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	meta := &Metadata{}

	config, _, err := image.DecodeConfig(file)
	if err == nil {
		w, h := config.Width, config.Height
		meta.Width = &w
		meta.Height = &h
	}

	// reset file pointer for EXIF reading
	if _, err := file.Seek(0, 0); err != nil {
		return meta, nil
	}

	exifData, err := exif.Decode(file)
	if err != nil {
		// no EXIF block; dimensions alone are still useful
		return meta, nil
	}

	if t, err := exifData.DateTime(); err == nil {
		unix := t.Unix()
		meta.TakenAt = &unix
	}

	meta.CameraMake = getString(exifData, exif.Make)
	meta.CameraModel = getString(exifData, exif.Model)
	meta.Aperture = getRational(exifData, exif.FNumber)
	meta.ShutterSpeed = getShutterSpeed(exifData)
	meta.ISO = getInt(exifData, exif.ISOSpeedRatings)
	meta.Orientation = getInt(exifData, exif.Orientation)

	if lat, lon, err := exifData.LatLong(); err == nil {
		meta.Latitude = &lat
		meta.Longitude = &lon
	}

	return meta, nil
}
