package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingSetting = errors.New("missing required setting")

type Config struct {
	Provider    string            `mapstructure:"provider"`
	Azure       AzureConfig       `mapstructure:"azure"`
	AWS         AWSConfig         `mapstructure:"aws"`
	Databricks  DatabricksConfig  `mapstructure:"databricks"`
	Snowflake   SnowflakeConfig   `mapstructure:"snowflake"`
	SMTP        SMTPConfig        `mapstructure:"smtp"`
	Alert       AlertConfig       `mapstructure:"alert"`
	Cost        CostConfig        `mapstructure:"cost"`
	Aggregation AggregationConfig `mapstructure:"aggregation"`
	Schedule    ScheduleConfig    `mapstructure:"schedule"`
	History     HistoryConfig     `mapstructure:"history"`
	Server      ServerConfig      `mapstructure:"server"`
}

type AzureConfig struct {
	TenantID       string `mapstructure:"tenant_id"`
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	SubscriptionID string `mapstructure:"subscription_id"`
	// Profile is a section of ~/.azure/config used when SubscriptionID is empty.
	Profile string `mapstructure:"profile"`
}

type AWSConfig struct {
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
}

type DatabricksConfig struct {
	ConfigFile string `mapstructure:"config_file"` // ~/.databrickscfg
	Profile    string `mapstructure:"profile"`
	HTTPPath   string `mapstructure:"http_path"` // /sql/1.0/warehouses/<id>
}

type SnowflakeConfig struct {
	ProfilePath string  `mapstructure:"profile_path"`
	CreditPrice float64 `mapstructure:"credit_price"`
}

type SMTPConfig struct {
	Server   string `mapstructure:"server"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Sender returns the From address, falling back to the SMTP username.
func (c SMTPConfig) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

type AlertConfig struct {
	EmailTo []string `mapstructure:"email_to"`
}

type CostConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	TopN      int     `mapstructure:"top_n"`
	Currency  string  `mapstructure:"currency"`
}

type AggregationConfig struct {
	Concurrency   int           `mapstructure:"concurrency"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
}

type ScheduleConfig struct {
	Daily    string `mapstructure:"daily"`
	Monthly  string `mapstructure:"monthly"`
	Timezone string `mapstructure:"timezone"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

var defaults = map[string]any{
	"provider":                   "azure",
	"azure.tenant_id":            "",
	"azure.client_id":            "",
	"azure.client_secret":        "",
	"azure.subscription_id":      "",
	"azure.profile":              "",
	"aws.profile":                "",
	"aws.region":                 "",
	"databricks.config_file":     "",
	"databricks.profile":         "DEFAULT",
	"databricks.http_path":       "",
	"snowflake.profile_path":     "",
	"snowflake.credit_price":     3.0,
	"smtp.server":                "smtp.gmail.com",
	"smtp.port":                  587,
	"smtp.username":              "",
	"smtp.password":              "",
	"smtp.from":                  "",
	"alert.email_to":             []string{},
	"cost.threshold":             100.0,
	"cost.top_n":                 5,
	"cost.currency":              "USD",
	"aggregation.concurrency":    1,
	"aggregation.lookup_timeout": time.Duration(0),
	"schedule.daily":             "0 9 * * *",
	"schedule.monthly":           "0 10 1 * *",
	"schedule.timezone":          "Local",
	"history.enabled":            true,
	"history.path":               "cost-monitor.db",
	"server.host":                "localhost",
	"server.port":                "8080",
}

// LoadDotEnv loads variables from a .env file into the process environment.
// A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Load reads the optional YAML file at path and overlays the environment.
// Nested keys map to upper-case variables, so smtp.server is read from SMTP_SERVER.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Alert.EmailTo = splitRecipients(cfg.Alert.EmailTo)
	return &cfg, nil
}

// Validate checks the settings required by the selected billing provider.
func (c *Config) Validate() error {
	var missing []string
	switch c.Provider {
	case "azure":
		if c.Azure.SubscriptionID == "" && c.Azure.Profile == "" {
			missing = append(missing, "azure.subscription_id")
		}
		if c.Azure.ClientSecret != "" {
			if c.Azure.TenantID == "" {
				missing = append(missing, "azure.tenant_id")
			}
			if c.Azure.ClientID == "" {
				missing = append(missing, "azure.client_id")
			}
		}
	case "databricks":
		if c.Databricks.HTTPPath == "" {
			missing = append(missing, "databricks.http_path")
		}
	case "snowflake":
		if c.Snowflake.ProfilePath == "" {
			missing = append(missing, "snowflake.profile_path")
		}
		if c.Snowflake.CreditPrice <= 0 {
			missing = append(missing, "snowflake.credit_price")
		}
	}
	if c.Cost.Threshold < 0 {
		return fmt.Errorf("cost.threshold must not be negative: %v", c.Cost.Threshold)
	}
	return missingError(missing)
}

// ValidateMail checks the settings required to deliver email.
func (c *Config) ValidateMail() error {
	var missing []string
	if c.SMTP.Server == "" {
		missing = append(missing, "smtp.server")
	}
	if c.SMTP.Port <= 0 {
		missing = append(missing, "smtp.port")
	}
	if c.SMTP.Username == "" {
		missing = append(missing, "smtp.username")
	}
	if c.SMTP.Password == "" {
		missing = append(missing, "smtp.password")
	}
	if len(c.Alert.EmailTo) == 0 {
		missing = append(missing, "alert.email_to")
	}
	return missingError(missing)
}

// Location resolves the scheduler timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Schedule.Timezone == "" || c.Schedule.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule.timezone %q: %w", c.Schedule.Timezone, err)
	}
	return loc, nil
}

func missingError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
}

func splitRecipients(values []string) []string {
	recipients := make([]string, 0, len(values))
	for _, value := range values {
		for _, addr := range strings.Split(value, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				recipients = append(recipients, addr)
			}
		}
	}
	return recipients
}
