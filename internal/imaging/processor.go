// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging stores uploaded images for records, normalizing
// orientation and size on the way in.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/alumni-cms/internal/util"
)

// Image MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Upload errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrTooLarge          = errors.New("image exceeds upload limit")
)

// Config controls how uploads are stored.
type Config struct {
	UploadDir    string // Filesystem root for uploads
	URLPrefix    string // Public URL prefix the upload root is served under
	MaxBytes     int64  // Largest accepted upload
	MaxDimension int    // Longest edge after resizing
	Quality      int    // JPEG quality
}

// DefaultConfig returns the standard upload settings for dir.
func DefaultConfig(dir string) Config {
	return Config{
		UploadDir:    dir,
		URLPrefix:    "/uploads",
		MaxBytes:     10 << 20,
		MaxDimension: 1600,
		Quality:      85,
	}
}

// Processor handles image processing operations using pure Go libraries.
type Processor struct {
	cfg Config
}

// NewProcessor creates a new image processor.
func NewProcessor(cfg Config) *Processor {
	return &Processor{cfg: cfg}
}

// Result describes a stored image.
type Result struct {
	URL      string
	Path     string
	Width    int
	Height   int
	MimeType string
	Size     int64
}

// Process decodes, orients, resizes and stores an image under dir.
func (p *Processor) Process(ctx context.Context, r io.Reader, dir, filename string) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, p.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > p.cfg.MaxBytes {
		return nil, ErrTooLarge
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// Read EXIF orientation and auto-rotate
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	if b := img.Bounds(); p.cfg.MaxDimension > 0 && (b.Dx() > p.cfg.MaxDimension || b.Dy() > p.cfg.MaxDimension) {
		img = imaging.Fit(img, p.cfg.MaxDimension, p.cfg.MaxDimension, imaging.Lanczos)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// WebP can be decoded but not encoded in pure Go
	if format == "webp" {
		format = "jpeg"
	}
	encoded, err := encodeImage(img, format, p.cfg.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	name := storedName(filename, format)
	filePath, err := p.saveImageFile(dir, name, encoded)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &Result{
		URL:      path.Join(p.cfg.URLPrefix, filepath.ToSlash(dir), name),
		Path:     filePath,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: formatToMimeType(format),
		Size:     int64(len(encoded)),
	}, nil
}

// For returns an uploader that stores files under dir.
func (p *Processor) For(dir string) *Uploader {
	return &Uploader{p: p, dir: dir}
}

// Uploader stores form uploads for one kind of record.
type Uploader struct {
	p   *Processor
	dir string
}

// Save stores an uploaded form file and returns its public URL.
func (u *Uploader) Save(ctx context.Context, field string, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > u.p.cfg.MaxBytes {
		return "", ErrTooLarge
	}
	res, err := u.p.Process(ctx, file, u.dir, header.Filename)
	if err != nil {
		return "", err
	}
	slog.Info("image uploaded",
		"field", field,
		"url", res.URL,
		"width", res.Width,
		"height", res.Height,
		"size", res.Size,
	)
	return res.URL, nil
}

// storedName builds a unique, URL-safe file name that keeps the original stem.
func storedName(filename, format string) string {
	stem := ""
	if safe, err := util.SanitizeFilename(filename); err == nil {
		stem = util.Slugify(strings.TrimSuffix(safe, filepath.Ext(safe)))
	}
	if len(stem) > 40 {
		stem = strings.Trim(stem[:40], "-")
	}
	id := uuid.NewString()[:8]
	if stem == "" {
		return id + formatExt(format)
	}
	return id + "-" + stem + formatExt(format)
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies an EXIF orientation transformation to an image.
// 2 and 4 flip, 3 rotates 180°, 6 and 8 rotate 90°, 5 and 7 rotate then flip.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image to bytes with the specified format and quality.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatExt(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// formatToMimeType converts format string to MIME type.
func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return MimeTypeJPEG
	case "png":
		return MimeTypePNG
	case "gif":
		return MimeTypeGIF
	case "webp":
		return MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}

// saveImageFile creates the directory if needed and writes data to it.
// The target is validated to stay within the upload directory.
func (p *Processor) saveImageFile(subDir, filename string, data []byte) (string, error) {
	safeFilename, err := util.SanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	dir, err := util.SafeJoinPath(p.cfg.UploadDir, subDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	filePath := filepath.Join(dir, safeFilename)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return filePath, nil
}
