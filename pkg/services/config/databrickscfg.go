package config

import (
	"fmt"
	"os"
	"path/filepath"

	dbconfig "github.com/databricks/databricks-sdk-go/config"
	"gopkg.in/ini.v1"
)

// DatabricksProfiles reads workspace profiles from a .databrickscfg file.
type DatabricksProfiles struct {
	cfg *ini.File
}

func LoadDatabricksProfiles(path string) (*DatabricksProfiles, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("unable to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".databrickscfg")
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load databricks config file: %w", err)
	}
	return &DatabricksProfiles{cfg: cfg}, nil
}

// Names lists the profiles that carry at least one key.
func (p *DatabricksProfiles) Names() []string {
	var profiles []string
	for _, section := range p.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles
}

// Get returns the workspace host and token of a profile.
func (p *DatabricksProfiles) Get(profile string) (*dbconfig.Config, error) {
	section, err := p.cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found: %w", profile, err)
	}

	host := section.Key("host").String()
	token := section.Key("token").String()
	if host == "" || token == "" {
		return nil, fmt.Errorf("%w: host and token in profile %s", ErrMissingSetting, profile)
	}

	return &dbconfig.Config{
		Host:  host,
		Token: token,
	}, nil
}
