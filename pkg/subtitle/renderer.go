package subtitle

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// MaxWidthRatio limits the subtitle block to this share of the frame width.
const MaxWidthRatio = 0.8

const backgroundPadding = 10

// Wrap greedily packs words into lines whose rendered width stays within
// maxWidth. A single word that alone exceeds the limit is placed on its
// own line unmodified; there is no character-level hyphenation.
func Wrap(text string, face font.Face, maxWidth int) []string {
	words := strings.Fields(text)
	var lines []string
	var current []string

	for _, word := range words {
		candidate := word
		if len(current) > 0 {
			candidate = strings.Join(current, " ") + " " + word
		}
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			current = append(current, word)
			continue
		}
		if len(current) == 0 {
			lines = append(lines, word)
			continue
		}
		lines = append(lines, strings.Join(current, " "))
		current = []string{word}
	}

	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

// Render composes one frame: the image at imagePath with text burned in
// per style, written as PNG to outPath. The source image is never
// modified.
func Render(imagePath, text string, style Style, face font.Face, outPath string) error {
	src, err := loadImage(imagePath)
	if err != nil {
		return err
	}

	canvas := image.NewRGBA(src.Bounds())
	draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Src)

	width := canvas.Bounds().Dx()
	height := canvas.Bounds().Dy()
	maxWidth := int(float64(width) * MaxWidthRatio)

	lines := Wrap(text, face, maxWidth)
	if len(lines) > 0 {
		drawBlock(canvas, lines, style, face, width, height)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create frame file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, canvas); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return nil
}

func drawBlock(canvas *image.RGBA, lines []string, style Style, face font.Face, width, height int) {
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	blockHeight := lineHeight * len(lines)

	blockWidth := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > blockWidth {
			blockWidth = w
		}
	}

	x := (width - blockWidth) / 2
	var y int
	switch style.Placement {
	case PlacementTop:
		y = int(float64(height) * 0.10)
	case PlacementMiddle:
		y = (height - blockHeight) / 2
	default: // bottom: block ends 20% above the bottom edge
		y = int(float64(height)*0.80) - blockHeight
	}

	if style.Background != BackgroundNone {
		alpha := uint8(180)
		if style.Background == BackgroundGradient {
			alpha = 150
		}
		rect := image.Rect(
			x-backgroundPadding, y-backgroundPadding,
			x+blockWidth+backgroundPadding, y+blockHeight+backgroundPadding,
		).Intersect(canvas.Bounds())
		draw.Draw(canvas, rect, image.NewUniform(color.NRGBA{0, 0, 0, alpha}), image.Point{}, draw.Over)
	}

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(ParseColor(style.Color)),
		Face: face,
	}
	ascent := metrics.Ascent.Ceil()
	for i, line := range lines {
		lineWidth := font.MeasureString(face, line).Ceil()
		drawer.Dot = fixed.P(x+(blockWidth-lineWidth)/2, y+i*lineHeight+ascent)
		drawer.DrawString(line)
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}
