package plan

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlCatalog is the on-disk shape of a plan file.
type yamlCatalog struct {
	Plans map[Tier]Limits `yaml:"plans"`
}

// LoadYAMLCatalog reads a full plan catalog from a YAML file. The file must
// pass the same validation as NewCatalog; partial overrides are deliberately
// not supported so a plan file is always reviewable as a complete picture.
//
// Example file:
//
//	plans:
//	  free:
//	    name: Free
//	    reset_period: daily
//	    quotas:
//	      scripts: 5
//	      titles: 10
//	      thumbnails: 3
//	    flags:
//	      niche_finder: false
//	      ...
func LoadYAMLCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadFile, err)
	}

	var doc yamlCatalog
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrFailedToLoadFile, err)
	}

	// The tier map key is authoritative; fill in the struct field so callers
	// can rely on Limits.Tier regardless of how the file was written.
	for tier, l := range doc.Plans {
		if l.Tier == "" {
			l.Tier = tier
			doc.Plans[tier] = l
		} else if l.Tier != tier {
			return nil, errors.Join(ErrFailedToLoadFile,
				fmt.Errorf("plan %q declares mismatched tier %q", tier, l.Tier))
		}
	}

	return NewCatalog(doc.Plans)
}
