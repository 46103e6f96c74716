package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"teachtimer/internal/core/model"

	"gopkg.in/yaml.v3"
)

// Every field is a pointer so absent keys are told apart from zero values.
type yamlSnapshot struct {
	Version  *yamlInt      `yaml:"version"`
	Presets  []yamlPreset  `yaml:"presets"`
	Settings *yamlSettings `yaml:"settings"`
}

type yamlPreset struct {
	ID              *string  `yaml:"id"`
	Name            *string  `yaml:"name"`
	DurationSeconds *yamlInt `yaml:"duration_seconds"`
	SortOrder       *yamlInt `yaml:"sort_order"`
	CreatedAt       *string  `yaml:"created_at"`
	UpdatedAt       *string  `yaml:"updated_at"`
}

// yamlInt only accepts integer scalars; yaml.v3 would otherwise truncate
// 600.9 into an int field.
type yamlInt int

func (value *yamlInt) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" {
		return fmt.Errorf("line %d: %q is not an integer", node.Line, node.Value)
	}
	var parsed int
	if err := node.Decode(&parsed); err != nil {
		return err
	}
	*value = yamlInt(parsed)
	return nil
}

type yamlSettings struct {
	Theme               *string  `yaml:"theme"`
	Sound               *string  `yaml:"sound"`
	Volume              *float64 `yaml:"volume"`
	FinalMinuteWarnings *bool    `yaml:"final_minute_warnings"`
	AutoFullscreen      *bool    `yaml:"auto_fullscreen_prompt"`
	LargeFont           *bool    `yaml:"extra_large_font"`
}

// YAMLStore keeps the snapshot in a single YAML file.
type YAMLStore struct {
	path string
	now  func() time.Time
}

// NewYAMLStore creates a store backed by the file at path.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path, now: time.Now}
}

// Path returns the backing file path.
func (store *YAMLStore) Path() string {
	return store.path
}

// Load reads the snapshot. If the file does not exist, defaults are returned.
func (store *YAMLStore) Load() (model.Snapshot, error) {
	defaults := model.DefaultSnapshot(store.now())

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("read snapshot file: %w", err)
	}

	var fileData yamlSnapshot
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return defaults, fmt.Errorf("%w: parse snapshot yaml: %w", model.ErrInvalidSnapshot, err)
	}

	snapshot, err := fileData.toModel()
	if err != nil {
		return defaults, err
	}
	if err := snapshot.Validate(); err != nil {
		return defaults, err
	}
	return snapshot, nil
}

// Save validates and writes the snapshot. Invalid snapshots are not written.
func (store *YAMLStore) Save(snapshot model.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	if err := ensureDir(store.path); err != nil {
		return err
	}

	serialized, err := yaml.Marshal(fromModel(snapshot))
	if err != nil {
		return fmt.Errorf("marshal snapshot yaml: %w", err)
	}

	// Write then rename so a crash never leaves a half-written file.
	tempFile, err := os.CreateTemp(filepath.Dir(store.path), ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tempPath := tempFile.Name()
	if _, err := tempFile.Write(serialized); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tempPath, store.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// Close is a no-op for file stores.
func (store *YAMLStore) Close() error {
	return nil
}

func fromModel(snapshot model.Snapshot) yamlSnapshot {
	version := yamlInt(snapshot.Version)
	presets := make([]yamlPreset, 0, len(snapshot.Presets))
	for _, preset := range snapshot.Presets {
		duration := yamlInt(preset.DurationSeconds)
		sortOrder := yamlInt(preset.SortOrder)
		createdAt := formatTimestamp(preset.CreatedAt)
		updatedAt := formatTimestamp(preset.UpdatedAt)
		presets = append(presets, yamlPreset{
			ID:              &preset.ID,
			Name:            &preset.Name,
			DurationSeconds: &duration,
			SortOrder:       &sortOrder,
			CreatedAt:       &createdAt,
			UpdatedAt:       &updatedAt,
		})
	}

	settings := snapshot.Settings
	theme := string(settings.Theme)
	sound := string(settings.Sound)
	return yamlSnapshot{
		Version: &version,
		Presets: presets,
		Settings: &yamlSettings{
			Theme:               &theme,
			Sound:               &sound,
			Volume:              &settings.Volume,
			FinalMinuteWarnings: &settings.FinalMinuteWarnings,
			AutoFullscreen:      &settings.AutoFullscreen,
			LargeFont:           &settings.LargeFont,
		},
	}
}

func (fileData yamlSnapshot) toModel() (model.Snapshot, error) {
	var errs []error
	missing := func(field string) {
		errs = append(errs, fmt.Errorf("%s: missing", field))
	}

	var snapshot model.Snapshot
	if fileData.Version == nil {
		missing("version")
	} else {
		snapshot.Version = int(*fileData.Version)
	}

	for index, filePreset := range fileData.Presets {
		prefix := fmt.Sprintf("presets[%d].", index)
		var preset model.Preset
		if filePreset.ID == nil {
			missing(prefix + "id")
		} else {
			preset.ID = *filePreset.ID
		}
		if filePreset.Name == nil {
			missing(prefix + "name")
		} else {
			preset.Name = *filePreset.Name
		}
		if filePreset.DurationSeconds == nil {
			missing(prefix + "duration_seconds")
		} else {
			preset.DurationSeconds = int(*filePreset.DurationSeconds)
		}
		if filePreset.SortOrder == nil {
			missing(prefix + "sort_order")
		} else {
			preset.SortOrder = int(*filePreset.SortOrder)
		}
		preset.CreatedAt = parsePresetTime(filePreset.CreatedAt, prefix+"created_at", &errs)
		preset.UpdatedAt = parsePresetTime(filePreset.UpdatedAt, prefix+"updated_at", &errs)
		snapshot.Presets = append(snapshot.Presets, preset)
	}

	if fileData.Settings == nil {
		missing("settings")
	} else {
		fileSettings := fileData.Settings
		if fileSettings.Theme == nil {
			missing("settings.theme")
		} else {
			snapshot.Settings.Theme = model.ThemeMode(*fileSettings.Theme)
		}
		if fileSettings.Sound == nil {
			missing("settings.sound")
		} else {
			snapshot.Settings.Sound = model.SoundMode(*fileSettings.Sound)
		}
		if fileSettings.Volume == nil {
			missing("settings.volume")
		} else {
			snapshot.Settings.Volume = *fileSettings.Volume
		}
		if fileSettings.FinalMinuteWarnings == nil {
			missing("settings.final_minute_warnings")
		} else {
			snapshot.Settings.FinalMinuteWarnings = *fileSettings.FinalMinuteWarnings
		}
		if fileSettings.AutoFullscreen == nil {
			missing("settings.auto_fullscreen_prompt")
		} else {
			snapshot.Settings.AutoFullscreen = *fileSettings.AutoFullscreen
		}
		if fileSettings.LargeFont == nil {
			missing("settings.extra_large_font")
		} else {
			snapshot.Settings.LargeFont = *fileSettings.LargeFont
		}
	}

	if len(errs) > 0 {
		return model.Snapshot{}, fmt.Errorf("%w: %w", model.ErrInvalidSnapshot, errors.Join(errs...))
	}
	return snapshot, nil
}

func parsePresetTime(value *string, field string, errs *[]error) time.Time {
	if value == nil {
		*errs = append(*errs, fmt.Errorf("%s: missing", field))
		return time.Time{}
	}
	parsed, err := parseTimestamp(*value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", field, err))
		return time.Time{}
	}
	return parsed
}
