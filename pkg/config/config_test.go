package config

import "testing"

func TestFromEnvironmentDefaults(t *testing.T) {
	t.Setenv("FILEMANAGER_BASE_DIR", "")
	t.Setenv("FILEMANAGER_QUARANTINE", "")
	t.Setenv("FILEMANAGER_MAX_FILE_SIZE", "")
	t.Setenv("FILEMANAGER_MAX_WORKSPACE_SIZE", "")
	t.Setenv("FILEMANAGER_LOG_LEVEL", "")

	c := FromEnvironment()
	if c.Quarantine {
		t.Errorf("expected Quarantine to default false")
	}
	if c.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("MaxFileSize = %d, want default %d", c.MaxFileSize, DefaultMaxFileSize)
	}
	if c.MaxWorkspaceSize != DefaultMaxWorkspaceSize {
		t.Errorf("MaxWorkspaceSize = %d, want default %d", c.MaxWorkspaceSize, DefaultMaxWorkspaceSize)
	}
}

func TestFromEnvironmentOverrides(t *testing.T) {
	t.Setenv("FILEMANAGER_BASE_DIR", "/tmp/custom")
	t.Setenv("FILEMANAGER_QUARANTINE", "true")
	t.Setenv("FILEMANAGER_MAX_FILE_SIZE", "1024")
	t.Setenv("FILEMANAGER_LOG_LEVEL", "debug")

	c := FromEnvironment()
	if c.BaseDir != "/tmp/custom" {
		t.Errorf("BaseDir = %q, want /tmp/custom", c.BaseDir)
	}
	if !c.Quarantine {
		t.Errorf("expected Quarantine to be true")
	}
	if c.MaxFileSize != 1024 {
		t.Errorf("MaxFileSize = %d, want 1024", c.MaxFileSize)
	}
}

func TestFromEnvironmentAcceptsHumanReadableSize(t *testing.T) {
	t.Setenv("FILEMANAGER_MAX_FILE_SIZE", "40Mi")
	t.Setenv("FILEMANAGER_MAX_WORKSPACE_SIZE", "1Gi")

	c := FromEnvironment()
	if c.MaxFileSize != 40*1024*1024 {
		t.Errorf("MaxFileSize = %d, want %d", c.MaxFileSize, 40*1024*1024)
	}
	if c.MaxWorkspaceSize != 1024*1024*1024 {
		t.Errorf("MaxWorkspaceSize = %d, want %d", c.MaxWorkspaceSize, 1024*1024*1024)
	}
}

func TestCheckerPipelineDefaultsWhenUnset(t *testing.T) {
	c := &Config{}
	if len(c.CheckerPipeline()) == 0 {
		t.Errorf("expected default checker pipeline to be non-empty")
	}
}
