package enums

import "fmt"

// DataSource enumerates the upstream feed a nightly or market row came from.
type DataSource string

const (
	DataSourceWheelhouse DataSource = "wheelhouse"
	DataSourceGuesty     DataSource = "guesty"
	DataSourceAirDNA     DataSource = "airdna"
	DataSourceRabbu      DataSource = "rabbu"
)

var validDataSources = []DataSource{
	DataSourceWheelhouse,
	DataSourceGuesty,
	DataSourceAirDNA,
	DataSourceRabbu,
}

// IsValid checks whether the given value matches the canonical enum.
func (d DataSource) IsValid() bool {
	for _, candidate := range validDataSources {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDataSource converts raw strings into DataSource.
func ParseDataSource(value string) (DataSource, error) {
	for _, candidate := range validDataSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid data source %q", value)
}
