package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/testutil"
)

func TestShowConfig_Execute(t *testing.T) {
	// Setup
	manager := &testutil.MockConfigManager{
		GlobalInfo:  domain.ConfigInfo{Path: "/home/u/.config/taskdesk/config.toml", Exists: true, Content: "[api]\n"},
		ProjectInfo: domain.ConfigInfo{Path: "/work/.taskdesk.toml"},
	}
	loader := testutil.NewMockConfigLoader()
	loader.Config.API.BaseURL = "http://api.test"
	uc := NewShowConfig(manager, loader)

	// Execute
	out, err := uc.Execute(context.Background(), ShowConfigInput{})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.GlobalConfig.Exists)
	assert.False(t, out.ProjectConfig.Exists)
	assert.Equal(t, "http://api.test", out.Effective.API.BaseURL)
}

func TestShowConfig_Execute_LoadError(t *testing.T) {
	loader := testutil.NewMockConfigLoader()
	loader.LoadErr = assert.AnError
	uc := NewShowConfig(&testutil.MockConfigManager{}, loader)

	_, err := uc.Execute(context.Background(), ShowConfigInput{})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestInitConfig_Execute(t *testing.T) {
	tests := []struct {
		name        string
		global      bool
		wantPath    string
		wantProject int
		wantGlobal  int
	}{
		{name: "project", wantPath: "/work/.taskdesk.toml", wantProject: 1},
		{name: "global", global: true, wantPath: "/cfg/config.toml", wantGlobal: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := &testutil.MockConfigManager{
				GlobalInfo:  domain.ConfigInfo{Path: "/cfg/config.toml"},
				ProjectInfo: domain.ConfigInfo{Path: "/work/.taskdesk.toml"},
			}
			uc := NewInitConfig(manager)

			out, err := uc.Execute(context.Background(), InitConfigInput{Global: tt.global})

			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, out.Path)
			assert.Equal(t, tt.wantProject, manager.InitProjectN)
			assert.Equal(t, tt.wantGlobal, manager.InitGlobalN)
		})
	}
}

func TestInitConfig_Execute_Exists(t *testing.T) {
	manager := &testutil.MockConfigManager{InitErr: domain.ErrConfigExists}
	uc := NewInitConfig(manager)

	_, err := uc.Execute(context.Background(), InitConfigInput{})

	assert.ErrorIs(t, err, domain.ErrConfigExists)
}
