// Package config loads provider profiles and resolves the active profile,
// model and API key.
//
// Every resolver follows the same precedence: an explicit value (usually a
// command-line flag) wins, then an environment variable, then the profile
// file's default.
//
//	config.LoadEnvFile(".env")
//	reg, err := config.LoadProfiles(config.ResolveProfilesPath(*profilesFlag))
//	if err != nil {
//	    return err
//	}
//	profile, err := config.ResolveProfile(reg, *profileFlag)
//	if err != nil {
//	    return err
//	}
//	model, err := config.ResolveModel(profile, *modelFlag, *profileFlag != "")
package config
