package assettypes

import "strings"

// ClassifierConfig holds the extension allowlist per category. The allowlist
// is injected at construction rather than living as a process-wide constant,
// so deployments can extend or restrict the supported set.
type ClassifierConfig struct {
	Image  []string
	Audio  []string
	Model  []string
	Config []string
	Script []string
}

// DefaultClassifierConfig returns the stock extension allowlist.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Image:  []string{".png", ".bmp", ".jpg", ".jpeg", ".gif", ".tga"},
		Audio:  []string{".wav", ".mp3", ".ogg", ".flac"},
		Model:  []string{".obj", ".fbx", ".gltf", ".glb"},
		Config: []string{".json", ".yaml", ".yml", ".toml", ".ini", ".xml"},
		Script: []string{".lua", ".js", ".cs", ".py"},
	}
}

// mimeHints maps known extensions to their MIME types.
var mimeHints = map[string]string{
	".png":  "image/png",
	".bmp":  "image/bmp",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".tga":  "image/x-tga",

	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",

	".obj":  "model/obj",
	".fbx":  "application/octet-stream",
	".gltf": "model/gltf+json",
	".glb":  "model/gltf-binary",

	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".toml": "application/toml",
	".ini":  "text/plain",
	".xml":  "application/xml",

	".lua": "text/x-lua",
	".js":  "text/javascript",
	".cs":  "text/plain",
	".py":  "text/x-python",
}

// Classifier maps file extensions to asset categories and MIME hints.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	categories map[string]Category
}

// NewClassifier builds a Classifier from the given allowlist configuration.
// Extensions are matched case-insensitively and must include the leading dot.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	c := &Classifier{categories: make(map[string]Category)}
	add := func(exts []string, cat Category) {
		for _, ext := range exts {
			c.categories[strings.ToLower(ext)] = cat
		}
	}
	add(cfg.Image, CategoryImage)
	add(cfg.Audio, CategoryAudio)
	add(cfg.Model, CategoryModel)
	add(cfg.Config, CategoryConfig)
	add(cfg.Script, CategoryScript)
	return c
}

// Classify returns the category and MIME hint for a file extension, and
// whether the extension is on the allowlist. Unknown extensions classify as
// CategoryOther with supported = false.
func (c *Classifier) Classify(ext string) (Category, string, bool) {
	ext = strings.ToLower(ext)
	cat, ok := c.categories[ext]
	if !ok {
		return CategoryOther, "application/octet-stream", false
	}
	return cat, MimeHint(ext), true
}

// Supported reports whether the extension is on the allowlist.
func (c *Classifier) Supported(ext string) bool {
	_, ok := c.categories[strings.ToLower(ext)]
	return ok
}

// MimeHint returns the MIME type for a known extension, or
// "application/octet-stream" when the extension is not recognized.
func MimeHint(ext string) string {
	if mime, ok := mimeHints[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}
