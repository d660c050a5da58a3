// Package config loads typed configuration structs from environment
// variables, reading a .env file once when present and caching each struct
// type so it is parsed at most once per process.
//
// Packages in this module declare their own Config structs with env tags;
// this package is only the loading mechanism:
//
//	var cfg refresh.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
package config
