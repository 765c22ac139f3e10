package root

import (
	"fmt"
	"time"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/command"
	"github.com/go-drift/motion/pkg/errors"
)

// Config holds the runtime options a host can set in motion.yaml.
type Config struct {
	AnimationQuality command.Quality `yaml:"animation_quality,omitempty"`
	// ScrollCommandsInCore animates scroll commands in the runtime instead
	// of handing them to the view host. Nil means true.
	ScrollCommandsInCore *bool  `yaml:"scroll_commands_in_core,omitempty"`
	ScrollDurationMS     int    `yaml:"scroll_command_duration_ms,omitempty"`
	ScrollEasing         string `yaml:"scroll_easing,omitempty"`
	MinDocumentVersion   string `yaml:"min_document_version,omitempty"`
}

// DefaultConfig returns the configuration used when motion.yaml is absent.
func DefaultConfig() Config {
	return Config{
		AnimationQuality: command.QualityNormal,
		ScrollDurationMS: int(command.DefaultScrollDuration / time.Millisecond),
		ScrollEasing:     "ease-in-out",
	}
}

// Settings validates c and converts it to command settings. Zero fields
// take their defaults.
func (c Config) Settings() (command.Settings, error) {
	s := command.Settings{
		AnimationQuality:     c.AnimationQuality,
		ScrollCommandsInCore: c.ScrollCommandsInCore == nil || *c.ScrollCommandsInCore,
		ScrollDuration:       command.Millis(c.ScrollDurationMS),
	}
	switch s.AnimationQuality {
	case "":
		s.AnimationQuality = command.QualityNormal
	case command.QualityNone, command.QualitySlow, command.QualityNormal:
	default:
		return command.Settings{}, configError(fmt.Errorf("animation_quality: unknown value %q", c.AnimationQuality))
	}
	if c.ScrollDurationMS < 0 {
		return command.Settings{}, configError(fmt.Errorf("scroll_command_duration_ms: must not be negative, got %d", c.ScrollDurationMS))
	}
	if c.ScrollEasing != "" {
		curve, err := animation.ParseEasing(c.ScrollEasing)
		if err != nil {
			return command.Settings{}, configError(fmt.Errorf("scroll_easing: %w", err))
		}
		s.ScrollEasing = curve
	}
	return s, nil
}

func configError(err error) *errors.Error {
	return errors.New("root.Config", errors.KindConfig, err)
}
