package domain

type ProviderType string

const (
	ProviderAzure      ProviderType = "azure"
	ProviderAWS        ProviderType = "aws"
	ProviderDatabricks ProviderType = "databricks"
	ProviderSnowflake  ProviderType = "snowflake"
)

// DisplayName is the cloud name used in alert subjects and report titles.
func (p ProviderType) DisplayName() string {
	switch p {
	case ProviderAzure:
		return "Azure"
	case ProviderAWS:
		return "AWS"
	case ProviderDatabricks:
		return "Databricks"
	case ProviderSnowflake:
		return "Snowflake"
	default:
		return string(p)
	}
}
