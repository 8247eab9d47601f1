package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// migratedHeader is prepended to every config produced by a JSON
// migration so the file's origin stays visible.
const migratedHeader = "# chlog Configuration\n# Migrated from JSON format\n\n"

// MigrationResult describes the outcome of a migration operation.
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Success    bool
	DryRun     bool
	Message    string
}

// MigrateJSONToYAML converts a legacy JSON config file to YAML. The
// source must parse as JSON and the target must not exist yet; a dry
// run stops before writing. The JSON file is left in place either way,
// RemoveLegacyConfig handles it once the YAML config is confirmed
// working.
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: jsonPath,
		TargetPath: yamlPath,
		DryRun:     dryRun,
	}

	values, err := readLegacyJSON(jsonPath)
	if os.IsNotExist(err) {
		result.Message = fmt.Sprintf("No JSON config found at %s", jsonPath)
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if fileExists(yamlPath) {
		result.Message = fmt.Sprintf("YAML config already exists at %s (skipped)", yamlPath)
		return result, nil
	}

	result.Success = true
	if dryRun {
		result.Message = fmt.Sprintf("Would migrate %s → %s", jsonPath, yamlPath)
		return result, nil
	}

	if err := writeMigratedYAML(yamlPath, values); err != nil {
		return nil, err
	}
	result.Message = fmt.Sprintf("Migrated %s → %s", jsonPath, yamlPath)
	return result, nil
}

// readLegacyJSON returns the decoded contents of a legacy JSON config.
// A missing file surfaces as an os.IsNotExist error for the caller to
// classify.
func readLegacyJSON(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read JSON config: %w", err)
	}

	var values map[string]interface{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}
	return values, nil
}

func writeMigratedYAML(path string, values map[string]interface{}) error {
	encoded, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := append([]byte(migratedHeader), encoded...)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write YAML config: %w", err)
	}
	return nil
}

// MigrateUserConfig migrates the user-level config from JSON to YAML.
func MigrateUserConfig(dryRun bool) (*MigrationResult, error) {
	jsonPath, err := LegacyUserConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get legacy user config path: %w", err)
	}

	yamlPath, err := UserConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config path: %w", err)
	}

	return MigrateJSONToYAML(jsonPath, yamlPath, dryRun)
}

// MigrateProjectConfig migrates the project-level config from JSON to YAML.
func MigrateProjectConfig(dryRun bool) (*MigrationResult, error) {
	return MigrateJSONToYAML(LegacyProjectConfigPath(), ProjectConfigPath(), dryRun)
}

// RemoveLegacyConfig renames a legacy JSON config to a .bak file. Call
// it only after the migrated YAML config is confirmed working.
func RemoveLegacyConfig(jsonPath string, dryRun bool) error {
	if dryRun {
		return nil
	}

	err := os.Rename(jsonPath, jsonPath+".bak")
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("failed to backup legacy config: %w", err)
}

// DetectLegacyConfigs returns paths to any legacy JSON configs present.
func DetectLegacyConfigs() (userJSON, projectJSON string, err error) {
	userPath, err := LegacyUserConfigPath()
	if err != nil {
		return "", "", err
	}

	if fileExists(userPath) {
		userJSON = userPath
	}
	if projectPath := LegacyProjectConfigPath(); fileExists(projectPath) {
		projectJSON = projectPath
	}
	return userJSON, projectJSON, nil
}
