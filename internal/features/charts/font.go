package charts

import (
	"os"
	"path/filepath"

	logging "rate-imaging/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

// systemFontPaths are tried after Layout.FontPath. Arial first to match the SVG labels.
var systemFontPaths = []string{
	"C:/Windows/Fonts/arial.ttf",
	"/Library/Fonts/Arial.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"~/Library/Fonts/Arial.ttf",
	"/usr/share/fonts/truetype/msttcorefonts/Arial.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

// loadLabelFont sets a TrueType face on dc, or basicfont when none loads.
// Returns the path that was loaded, "" for the fallback.
func loadLabelFont(dc *gg.Context, preferred string, size float64) string {
	paths := systemFontPaths
	if preferred != "" {
		paths = append([]string{preferred}, systemFontPaths...)
	}

	for _, fontPath := range paths {
		expanded := expandPath(fontPath)
		if _, err := os.Stat(expanded); err != nil {
			if preferred != "" && fontPath == preferred {
				logging.LogWarn("Configured font not found, trying system fonts",
					zap.String("path", expanded),
					zap.Error(err))
			}
			continue
		}
		if err := dc.LoadFontFace(expanded, size); err != nil {
			logging.LogWarn("Font file exists but failed to load",
				zap.String("path", expanded),
				zap.Error(err))
			continue
		}
		logging.LogDebug("Loaded label font", zap.String("path", expanded), zap.Float64("size", size))
		return expanded
	}

	logging.LogWarn("No TrueType font found, using basic 7x13 face",
		zap.Int("paths_checked", len(paths)))
	dc.SetFontFace(basicfont.Face7x13)
	return ""
}
