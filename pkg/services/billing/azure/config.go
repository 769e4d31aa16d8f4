package azure

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/de-tools/cost-monitor/pkg/services/config"
	"gopkg.in/ini.v1"
)

const DefaultProfile = "default"

type Settings struct {
	SubscriptionID string
	TenantID       string
	ClientID       string
	ClientSecret   string
}

// LoadSettings merges explicit settings with the named ~/.azure/config profile.
func LoadSettings(cfg config.AzureConfig) (*Settings, error) {
	settings := &Settings{
		SubscriptionID: cfg.SubscriptionID,
		TenantID:       cfg.TenantID,
		ClientID:       cfg.ClientID,
		ClientSecret:   cfg.ClientSecret,
	}
	if settings.SubscriptionID != "" {
		return settings, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("unable to get home directory: %w", err)
	}
	profile, err := loadProfile(filepath.Join(homeDir, ".azure", "config"), cfg.Profile)
	if err != nil {
		return nil, err
	}
	return settings.merge(profile), nil
}

func loadProfile(path, profile string) (*Settings, error) {
	if profile == "" {
		profile = DefaultProfile
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load Azure config file: %w", err)
	}

	section, err := cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found in Azure config: %w", profile, err)
	}

	settings := &Settings{
		SubscriptionID: section.Key("subscription").String(),
		TenantID:       section.Key("tenant").String(),
		ClientID:       section.Key("client_id").String(),
	}
	if settings.SubscriptionID == "" {
		return nil, fmt.Errorf("%w: subscription in Azure profile %s", config.ErrMissingSetting, profile)
	}
	return settings, nil
}

func (s *Settings) merge(profile *Settings) *Settings {
	merged := *s
	merged.SubscriptionID = profile.SubscriptionID
	if merged.TenantID == "" {
		merged.TenantID = profile.TenantID
	}
	if merged.ClientID == "" {
		merged.ClientID = profile.ClientID
	}
	return &merged
}

// Credential uses the service principal secret when present and the Azure CLI login otherwise.
func (s *Settings) Credential() (azcore.TokenCredential, error) {
	if s.ClientSecret != "" {
		cred, err := azidentity.NewClientSecretCredential(s.TenantID, s.ClientID, s.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client secret credential: %w", err)
		}
		return cred, nil
	}

	cred, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
		TenantID: s.TenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure CLI credential: %w", err)
	}
	return cred, nil
}

// Scope is the cost management scope of the subscription.
func (s *Settings) Scope() string {
	return fmt.Sprintf("/subscriptions/%s", s.SubscriptionID)
}
