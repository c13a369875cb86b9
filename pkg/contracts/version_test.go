package contracts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVersionInfo tests version reporting
func TestVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.Equal(t, DatasetFormatVersion, info.DatasetFormat)
	assert.NotEmpty(t, info.GoVersion)

	assert.True(t, strings.HasSuffix(GetVersionString(), "v"+Version))
	assert.Contains(t, GetFullVersionString(), "commit: "+GitCommit)
	assert.False(t, IsPrerelease())
}
