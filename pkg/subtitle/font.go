package subtitle

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// DefaultFontSize is the point size subtitle faces are rendered at.
const DefaultFontSize = 40

// ResolveFace loads the requested font from fontsDir and returns a face
// for it. Font availability is unpredictable across hosts, so any load or
// parse failure falls back to the built-in face instead of failing the
// render.
func ResolveFace(fontName, fontsDir string) font.Face {
	for _, path := range fontCandidates(fontName, fontsDir) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		parsed, err := truetype.Parse(data)
		if err != nil {
			continue
		}
		return truetype.NewFace(parsed, &truetype.Options{Size: DefaultFontSize})
	}
	return basicfont.Face7x13
}

// fontCandidates lists the paths a font name may resolve to: the name
// itself when it looks like a path, then the fonts directory with and
// without a .ttf extension.
func fontCandidates(name, dir string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	var paths []string
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		paths = append(paths, name)
	}
	paths = append(paths, filepath.Join(dir, name))
	if !strings.HasSuffix(strings.ToLower(name), ".ttf") {
		paths = append(paths, filepath.Join(dir, name+".ttf"))
	}
	return paths
}
