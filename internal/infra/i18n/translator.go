package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"activation-service/internal/domain"
)

//go:embed locales/*.yaml
var LocalesFS embed.FS

// Translator holds the flat key/format table of one language.
type Translator struct {
	translations map[string]string
}

func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	filePath := path.Join("locales", langCode+".yaml")
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation file %s: %w", filePath, err)
	}
	return newTranslatorFromBytes(data)
}

func newTranslatorFromBytes(data []byte) (*Translator, error) {
	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation file: %w", err)
	}
	return &Translator{translations: translations}, nil
}

// T returns the translation for key, or key itself when missing.
func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

func (t *Translator) has(key string) bool {
	_, ok := t.translations[key]
	return ok
}

// Catalog localizes error messages. English is built into domain.ErrorKind;
// other languages come from locales/<lang>.yaml.
type Catalog struct {
	langs map[string]*Translator
}

// LoadCatalog reads every locale file in fsys.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	files, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, err
	}
	c := &Catalog{langs: make(map[string]*Translator, len(files))}
	for _, f := range files {
		lang := strings.TrimSuffix(path.Base(f), ".yaml")
		tr, err := NewTranslator(fsys, lang)
		if err != nil {
			return nil, err
		}
		c.langs[lang] = tr
	}
	return c, nil
}

// ErrorMessage picks the first supported language from an Accept-Language
// header value. Missing translations fall back to the built-in English text.
func (c *Catalog) ErrorMessage(acceptLanguage string, kind domain.ErrorKind) string {
	key := "error." + string(kind)
	for _, lang := range parseAcceptLanguage(acceptLanguage) {
		if tr, ok := c.langs[lang]; ok && tr.has(key) {
			return tr.T(key)
		}
	}
	return kind.Message()
}

// parseAcceptLanguage returns primary language subtags in header order,
// ignoring quality weights.
func parseAcceptLanguage(header string) []string {
	var out []string
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" || tag == "*" {
			continue
		}
		primary := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		out = append(out, primary)
	}
	return out
}
