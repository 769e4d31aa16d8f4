package snowflake

import (
	"fmt"

	"github.com/de-tools/cost-monitor/pkg/services/config"
	"github.com/snowflakedb/gosnowflake"
	"github.com/spf13/viper"
)

type Profile struct {
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
}

// LoadConfig reads the connection profile at profilePath.
func LoadConfig(profilePath string) (*gosnowflake.Config, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var profile Profile
	if err := v.Unmarshal(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse snowflake config: %w", err)
	}
	if profile.Account == "" || profile.User == "" {
		return nil, fmt.Errorf("%w: account and user in %s", config.ErrMissingSetting, profilePath)
	}

	return &gosnowflake.Config{
		Account:   profile.Account,
		User:      profile.User,
		Password:  profile.Password,
		Database:  profile.Database,
		Warehouse: profile.Warehouse,
		Role:      profile.Role,
	}, nil
}
