package platform

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/index"
	"github.com/aretw0/folio/pkg/markdown"
)

// ConfigFile is the name of the site configuration file.
const ConfigFile = "folio.toml"

// DefaultOutput is where build output goes when nothing else is configured.
const DefaultOutput = "_folio"

// Config is the resolved configuration of a site.
type Config struct {
	Include        []string `toml:"include" json:"include"`
	Exclude        []string `toml:"exclude" json:"exclude"`
	Permalink      string   `toml:"permalink" json:"permalink"`
	WordsPerMinute int      `toml:"words_per_minute" json:"words_per_minute"`
	Unpublished    bool     `toml:"unpublished" json:"unpublished"`
	Cache          *bool    `toml:"cache" json:"cache"`
	Revisions      bool     `toml:"revisions" json:"revisions"`
	SystemDir      string   `toml:"system_dir" json:"system_dir"`
	Output         string   `toml:"output" json:"output"`
	Schema         string   `toml:"schema" json:"schema"` // JSON Schema file for front matter, relative to the root
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.WordsPerMinute, validation.Min(0)),
		validation.Field(&c.Permalink, validation.By(func(value any) error {
			p, _ := value.(string)
			if p == "" || index.IsPermalinkStyle(p) || strings.HasPrefix(p, "/") {
				return nil
			}
			return validation.NewError("folio.config.permalink_invalid", "must be date, pretty, ordinal, none or a pattern starting with /")
		})),
		validation.Field(&c.Include, validation.Each(validation.By(validPattern))),
		validation.Field(&c.Exclude, validation.Each(validation.By(validPattern))),
		validation.Field(&c.SystemDir, validation.By(func(value any) error {
			dir, _ := value.(string)
			if dir == "" || filepath.IsLocal(dir) {
				return nil
			}
			return validation.NewError("folio.config.system_dir_invalid", "must be a directory inside the site")
		})),
	)
}

func validPattern(value any) error {
	p, _ := value.(string)
	if strings.TrimSpace(p) == "" || !doublestar.ValidatePattern(p) {
		return validation.NewError("folio.config.pattern_invalid", "must be a valid glob pattern")
	}
	return nil
}

// CacheEnabled reports whether the summary cache is on.
func (c Config) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// LoadConfig decodes folio.toml at root. A missing file yields the zero
// Config and no error.
func LoadConfig(root string) (Config, error) {
	var cfg Config
	path := filepath.Join(root, ConfigFile)
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, iofs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), ConfigFile)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return cfg, nil
}

// resolve layers explicit options over the file values and fills defaults.
func resolve(file Config, o *options) Config {
	cfg := file
	if v, ok := o.config["include"].([]string); ok {
		cfg.Include = v
	}
	if v, ok := o.config["exclude"].([]string); ok {
		cfg.Exclude = append(append([]string(nil), cfg.Exclude...), v...)
	}
	if v, ok := o.config["permalink"].(string); ok {
		cfg.Permalink = v
	}
	if v, ok := o.config["words_per_minute"].(int); ok {
		cfg.WordsPerMinute = v
	}
	if v, ok := o.config["unpublished"].(bool); ok {
		cfg.Unpublished = v
	}
	if v, ok := o.config["cache"].(bool); ok {
		cfg.Cache = &v
	}
	if v, ok := o.config["revisions"].(bool); ok {
		cfg.Revisions = v
	}
	if v, ok := o.config["system_dir"].(string); ok {
		cfg.SystemDir = v
	}
	if v, ok := o.config["output"].(string); ok {
		cfg.Output = v
	}
	if v, ok := o.config["schema"].(string); ok {
		cfg.Schema = v
	}

	if cfg.Permalink == "" {
		cfg.Permalink = index.DefaultPermalink
	}
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = markdown.DefaultWordsPerMinute
	}
	if cfg.SystemDir == "" {
		cfg.SystemDir = fs.DefaultSystemDir
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	return cfg
}
