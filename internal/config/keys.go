package config

import (
	"fmt"
	"strconv"
)

// Keys lists the settable config keys, in file order.
var Keys = []string{
	"data_dir", "postal_codes", "geocode_api_key", "scale", "skip_lines",
	"concurrency", "requests_per_second", "user_agent", "strict_symbols",
}

// Get returns the value of key as text.
func (c *GlobalConfig) Get(key string) (string, error) {
	switch key {
	case "data_dir":
		return c.DataDir, nil
	case "postal_codes":
		return c.PostalCodes, nil
	case "geocode_api_key":
		return c.GeocodeAPIKey, nil
	case "scale":
		return strconv.FormatFloat(c.Scale, 'g', -1, 64), nil
	case "skip_lines":
		return strconv.Itoa(c.SkipLines), nil
	case "concurrency":
		return strconv.Itoa(c.Concurrency), nil
	case "requests_per_second":
		return strconv.FormatFloat(c.RequestsPerSecond, 'g', -1, 64), nil
	case "user_agent":
		return c.UserAgent, nil
	case "strict_symbols":
		return strconv.FormatBool(c.StrictSymbols), nil
	}
	return "", fmt.Errorf("unknown config key %q (valid: %v)", key, Keys)
}

// Set parses value and stores it under key.
func (c *GlobalConfig) Set(key, value string) error {
	var err error
	switch key {
	case "data_dir":
		c.DataDir = value
	case "postal_codes":
		c.PostalCodes = value
	case "geocode_api_key":
		c.GeocodeAPIKey = value
	case "scale":
		c.Scale, err = strconv.ParseFloat(value, 64)
	case "skip_lines":
		c.SkipLines, err = strconv.Atoi(value)
	case "concurrency":
		c.Concurrency, err = strconv.Atoi(value)
	case "requests_per_second":
		c.RequestsPerSecond, err = strconv.ParseFloat(value, 64)
	case "user_agent":
		c.UserAgent = value
	case "strict_symbols":
		c.StrictSymbols, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("unknown config key %q (valid: %v)", key, Keys)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	return nil
}
