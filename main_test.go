package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-backdrop/internal/config"
	"github.com/iburimskiy/particle-backdrop/internal/loop"
	"github.com/iburimskiy/particle-backdrop/internal/render"
	"github.com/iburimskiy/particle-backdrop/internal/style"
	"github.com/iburimskiy/particle-backdrop/internal/theme"
)

func TestBuilderPicksCountByDeviceTier(t *testing.T) {
	tests := []struct {
		name        string
		constrained bool
		userAgent   string
		want        int
	}{
		{"desktop", false, "Mozilla/5.0 (X11; Linux x86_64)", config.ParticleCount},
		{"mobile agent", false, "Mozilla/5.0 (iPad; CPU OS 17_0)", config.ConstrainedParticleCount},
		{"forced", true, "", config.ConstrainedParticleCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(nil)
			require.NoError(t, err)
			cfg.Particles.Constrained = tt.constrained
			cfg.Particles.UserAgent = tt.userAgent
			cfg.Particles.Seed = 1

			colors := theme.NewSource(style.NewRoot(nil), cfg.Style.Property)
			l := builder(cfg, colors)(render.NewRecorder(640, 480), &loop.Deferred{}, loop.NewGate(true))
			assert.Len(t, l.Field(), tt.want)
		})
	}
}

func TestRunHeadless(t *testing.T) {
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	cfg.Headless.Frames = 10
	cfg.Particles.Seed = 42

	colors := theme.NewSource(style.NewRoot(nil), cfg.Style.Property)
	assert.NoError(t, runHeadless(cfg, builder(cfg, colors)))
}

func TestLoadSheetFallsBack(t *testing.T) {
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	cfg.Style.Sheet = "does/not/exist.yaml"

	root := style.NewRoot(loadSheet(cfg))
	assert.Equal(t, "#CECBB6", root.PropertyValue(cfg.Style.Property))
}
