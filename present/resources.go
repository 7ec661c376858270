package present

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/Zyko0/go-sdl3/img"
	"github.com/Zyko0/go-sdl3/sdl"
	"go.uber.org/zap"

	"dotcloud/engine"
)

// IconScale is the drawn size of a choice icon relative to its source.
const IconScale = 0.15

// fontDir is searched for a .ttf or .ttc file when no font is configured.
const fontDir = "fonts"

var systemFonts = map[string][]string{
	"windows": {`C:\Windows\Fonts\arial.ttf`},
	"darwin":  {"/System/Library/Fonts/Helvetica.ttc"},
	"linux": {
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	},
}

// resolveFont picks the configured font, else the first font file in dir,
// else an installed system font. It returns "" when there is none.
func resolveFont(configured, dir string) string {
	if configured != "" {
		return configured
	}
	if files, err := filesWithExt(dir, ".ttf", ".ttc"); err == nil && len(files) > 0 {
		return files[0]
	}
	candidates, ok := systemFonts[runtime.GOOS]
	if !ok {
		candidates = systemFonts["linux"]
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Texture is a loaded image. It implements engine.Image.
type Texture struct {
	Path string
	tex  *sdl.Texture
	w, h float32
}

func (t *Texture) Size() (w, h float32) { return t.w, t.h }

// ResourceCache loads every file once and owns the textures.
type ResourceCache struct {
	renderer *sdl.Renderer
	log      *zap.Logger
	entries  map[string]*Texture

	images map[engine.Category][]engine.Image
	icons  map[engine.Choice]engine.Image
}

func NewResourceCache(renderer *sdl.Renderer, log *zap.Logger) *ResourceCache {
	return &ResourceCache{
		renderer: renderer,
		log:      log,
		entries:  make(map[string]*Texture),
		images:   make(map[engine.Category][]engine.Image),
		icons:    make(map[engine.Choice]engine.Image),
	}
}

func (c *ResourceCache) texture(path string) (*Texture, error) {
	if t, ok := c.entries[path]; ok {
		return t, nil
	}
	tex, err := img.LoadTexture(c.renderer, path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	w, h, _ := tex.Size()
	t := &Texture{Path: path, tex: tex, w: w, h: h}
	c.entries[path] = t
	return t, nil
}

// grayTexture loads path with every pixel replaced by its luminance.
func (c *ResourceCache) grayTexture(path string) (*Texture, error) {
	key := path + "#gray"
	if t, ok := c.entries[key]; ok {
		return t, nil
	}
	loaded, err := img.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	defer loaded.Destroy()
	surf, err := loaded.Convert(sdl.PIXELFORMAT_RGBA32)
	if err != nil {
		return nil, fmt.Errorf("convert image %s: %w", path, err)
	}
	defer surf.Destroy()

	toLuminance(surf.Pixels(), int(surf.W), int(surf.H), int(surf.Pitch))
	tex, err := c.renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", path, err)
	}
	t := &Texture{Path: path, tex: tex, w: float32(surf.W), h: float32(surf.H)}
	c.entries[key] = t
	return t, nil
}

// toLuminance rewrites RGBA32 pixel rows in place with the Rec. 601 luma
// of each pixel. Alpha and row padding are left alone.
func toLuminance(pix []byte, w, h, pitch int) {
	for y := 0; y < h; y++ {
		row := pix[y*pitch : y*pitch+4*w]
		for x := 0; x < len(row); x += 4 {
			l := 0.299*float64(row[x]) + 0.587*float64(row[x+1]) + 0.114*float64(row[x+2])
			v := uint8(min(255, math.Round(l)))
			row[x], row[x+1], row[x+2] = v, v, v
		}
	}
}

// grayCategories are shown without colour; faces keep theirs.
var grayCategories = map[engine.Category]bool{
	engine.RuralScenes: true,
	engine.UrbanScenes: true,
}

// categoryDirs is the folder of each category below the faces and scenes
// roots.
func categoryDirs(cfg *engine.Config) map[engine.Category]string {
	return map[engine.Category]string{
		engine.MaleFaces:   filepath.Join(cfg.FacesDir, "male"),
		engine.FemaleFaces: filepath.Join(cfg.FacesDir, "female"),
		engine.RuralScenes: filepath.Join(cfg.ScenesDir, "rural"),
		engine.UrbanScenes: filepath.Join(cfg.ScenesDir, "urban"),
	}
}

// filesWithExt lists the visible files of dir whose extension, in any case,
// is one of exts. The paths are sorted.
func filesWithExt(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(e.Name()))) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

func imageFiles(dir string) ([]string, error) {
	return filesWithExt(dir, ".png", ".jpg", ".jpeg")
}

func iconPath(cfg *engine.Config, c engine.Choice) string {
	return filepath.Join(cfg.IconsDir, c.String()+".png")
}

// LoadAssets fills the category and icon sets. Scenes are loaded in grey
// levels. Unreadable files are skipped with a warning; an empty category is
// left for the session to reject.
func (c *ResourceCache) LoadAssets(cfg *engine.Config) error {
	for cat, dir := range categoryDirs(cfg) {
		files, err := imageFiles(dir)
		if err != nil {
			return fmt.Errorf("%s: %w", cat, err)
		}
		load := c.texture
		if grayCategories[cat] {
			load = c.grayTexture
		}
		for _, f := range files {
			t, err := load(f)
			if err != nil {
				c.log.Warn("skipping image", zap.Error(err))
				continue
			}
			c.images[cat] = append(c.images[cat], t)
		}
		c.log.Debug("images loaded", zap.Stringer("category", cat), zap.Int("count", len(c.images[cat])))
	}
	for _, choice := range engine.IconChoices {
		t, err := c.texture(iconPath(cfg, choice))
		if err != nil {
			c.log.Warn("icon not loaded", zap.Stringer("icon", choice), zap.Error(err))
			continue
		}
		c.icons[choice] = t
	}
	return nil
}

func (c *ResourceCache) Images(cat engine.Category) []engine.Image { return c.images[cat] }

func (c *ResourceCache) Icon(choice engine.Choice) (engine.Image, bool) {
	t, ok := c.icons[choice]
	return t, ok
}

func (c *ResourceCache) Destroy() {
	for _, t := range c.entries {
		t.tex.Destroy()
	}
	c.entries = map[string]*Texture{}
}
