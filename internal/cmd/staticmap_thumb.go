package cmd

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// writeThumbnail scales an image file down so its longest side is at
// most maxSize pixels and writes it to outPath. The output format
// follows outPath's extension (png or jpeg).
func writeThumbnail(inPath, outPath string, maxSize int) error {
	if maxSize < 64 || maxSize > 1024 {
		return errors.New("thumbnail size must be between 64 and 1024")
	}

	inFile, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer inFile.Close() // nolint:errcheck

	srcImg, _, err := image.Decode(inFile)
	if err != nil {
		return err
	}

	bounds := srcImg.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return errors.New("invalid image dimensions")
	}

	longest := width
	if height > longest {
		longest = height
	}
	scale := float64(maxSize) / float64(longest)
	if scale > 1 {
		scale = 1
	}
	newW := int(float64(width) * scale)
	newH := int(float64(height) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), srcImg, bounds, draw.Over, nil)

	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close() // nolint:errcheck

	return encodeImage(outFile, dst, strings.ToLower(filepath.Ext(outPath)))
}

func encodeImage(w io.Writer, img image.Image, ext string) error {
	switch ext {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg", "":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 80})
	default:
		return fmt.Errorf("unsupported thumbnail format: %s", ext)
	}
}
